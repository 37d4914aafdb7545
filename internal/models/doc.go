// Package models defines the domain models for the balance API.
//
// # Models
//
//   - Participant: a member of the group with a cumulative contribution and the
//     share/net balance derived from it
//   - Expense: one payment made by a participant, added to its contribution
//   - User: a login account that may record expenses
//
// The group is implicit: every stored participant belongs to it, and every
// recalculation runs over all of them.
//
// # Design Principles
//
//  1. Value records: services and the calculator pass []Participant by value so
//     that a recalculation mutates an owned copy, never a shared record
//  2. IDs, not pointers, for relationships (Expense.ParticipantID)
//  3. Amounts are float64, matching the ledger's historical arithmetic
package models
