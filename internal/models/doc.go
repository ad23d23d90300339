// Package models defines the core domain models for budgetkeeper.
//
// # Models
//
//   - Item: a single income or outgoing line, owned by a Template or a Period
//   - Template: the reusable list of items new periods are seeded from
//   - Period: a dated copy of the template representing one budgeting cycle
//
// # Item shape
//
// Every item carries the common fields (name, amount, category, notes, date).
// Fields that only make sense for some categories live in a per-category
// Details value:
//
//	income    no details
//	bills     BillDetails{Paid, DueDate, Frequency}
//	expenses  ExpenseDetails{Frequency}
//	savings   SavingsDetails{Paid}
//	debt      DebtDetails{Paid}
//
// The JSON encoding stays flat (paid, dueDate, frequency, expenseFrequency
// next to the common fields) so exports remain readable by older versions.
// Fields that do not belong to an item's category are dropped on decode.
//
// # Ownership
//
// Models are plain values. The service layer owns the active template and
// periods; storage only ever sees copies.
package models
