package domain

const (
	// NotSpecified fills missing categorical fields during roster normalization.
	NotSpecified = "Not Specified"

	// FilterAll is the wildcard filter value meaning "no restriction".
	FilterAll = "All"
)

// VolunteerRecord is one row of the volunteer roster. Name is the identity
// key but is not unique per row: a volunteer belonging to several CRGs
// appears once per CRG.
type VolunteerRecord struct {
	Name         string
	CRG          string
	Timezone     string
	BusinessUnit string
	Email        string
	EmployeeID   string
}
