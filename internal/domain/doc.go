// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/box, domain/pallet).
// This root package holds sentinel errors, the error kinds callers branch on,
// the Dimensions value type and the Item capability shared by every stored
// entity.
package domain
