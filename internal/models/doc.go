// Package models defines the core domain records for GiftCircle.
//
// # Records
//
//   - User: identity plus relationship sets (friends, blocks, hidden events) and settings
//   - GiftCircle: a named group with admins and members
//   - Event: an occasion with invitees, a status and a visibility
//   - WishlistItem: a fundable item owning an append-only list of Contributions
//
// # Design Principles
//
// 1. **IDs, not pointers**: circles and events are referenced from items by ID and
// resolved by lookup; nothing here implies lifecycle coupling.
// 2. **Ledger-owned fields**: WishlistItem.FundedAmount, Status transitions and
// Contribution IDs/timestamps are set by the ledger, never by callers.
// 3. **Versions**: every record carries a Version used for conditional writes.
// The store bumps it on each successful write.
package models
