package domain

import "time"

// Donation is a single ledger entry.
type Donation struct {
	ID       DonationID
	Donor    UserID
	Amount   float64
	Campaign *string
	Date     time.Time
}

// DonorSummary is the identity projection attached to donations when listing the ledger.
type DonorSummary struct {
	ID    UserID
	Name  string
	Email string
}

// DonationWithDonor is the read model returned by the ledger listing.
type DonationWithDonor struct {
	Donation
	// Donor is nil when the donor has no identity record.
	DonorInfo *DonorSummary
}
