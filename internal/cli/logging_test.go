package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/budgetkeeper/internal/input"
)

func TestLogCommand(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	root := &cobra.Command{Use: "budget"}
	sub := &cobra.Command{Use: "summary"}
	root.AddCommand(sub)

	tests := []struct {
		name string
		cmd  *cobra.Command
		err  error
		want []string
	}{
		{
			name: "success",
			cmd:  sub,
			want: []string{"level=DEBUG", `msg="Command ok"`, `command="budget summary"`, "duration_ms=1500"},
		},
		{
			name: "rejected input",
			cmd:  sub,
			err:  &input.ValidationError{Fields: []input.FieldError{{Field: "amount", Message: "must not be negative"}}},
			want: []string{"level=DEBUG", `msg="Command rejected"`},
		},
		{
			name: "failure",
			err:  errors.New("disk full"),
			want: []string{"level=WARN", `msg="Command failed"`, "command=budget", `error="disk full"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			logCommand(tt.cmd, tt.err, 1500*time.Millisecond)
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}
