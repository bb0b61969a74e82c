package exoplanet

// Label is a bucket assignment for one numeric column.
type Label string

// Bucket labels. Temperature and gravity share low/optimal/high/extreme.
const (
	Small        Label = "small"
	Similar      Label = "similar"
	Bigger       Label = "bigger"
	Low          Label = "low"
	Optimal      Label = "optimal"
	High         Label = "high"
	Extreme      Label = "extreme"
	Unclassified Label = "unclassified"
)

// Status is the composite habitability label derived from temp and gravity.
type Status string

const (
	Promising     Status = "promising"
	Challenging   Status = "challenging"
	StatusExtreme Status = "extreme"
)

// Column names of the derived fields, as they appear in tables and payloads.
const (
	ColStarSize     = "StarSize"
	ColTemp         = "temp"
	ColGravity      = "gravity"
	ColStatus       = "status"
	ColRelativeDist = "relative_dist"
)

// Source column names.
const (
	ColKOI     = "KOI"
	ColPER     = "PER"
	ColA       = "A"
	ColRSTAR   = "RSTAR"
	ColTPLANET = "TPLANET"
	ColRPLANET = "RPLANET"
	ColRA      = "RA"
	ColDEC     = "DEC"
	ColMSTAR   = "MSTAR"
	ColTSTAR   = "TSTAR"
	ColROW     = "ROW"
)

// StarSizes lists the declared StarSize labels in display order.
var StarSizes = []Label{Small, Similar, Bigger}

// Statuses lists every status in display order.
var Statuses = []Status{Promising, Challenging, StatusExtreme}

// IsStarSize reports whether l is a StarSize label, unclassified included.
func IsStarSize(l Label) bool {
	switch l {
	case Small, Similar, Bigger, Unclassified:
		return true
	}
	return false
}
