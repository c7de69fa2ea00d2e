// Package catalog holds the persisted models reconciled from external providers.
//
// Offers are sellable items and Stocks are their bookable variants. Both embed a
// ProviderLink recording which provider wrote them last and with which
// provider-side modification date; the synchronization engine compares that date
// to decide whether an incoming record is stale.
//
// Provider-controlled fields are populated through the Filler interface. Each
// entity calls the Filler method matching its own kind, so adapters never need
// to inspect the concrete type they receive.
package catalog
