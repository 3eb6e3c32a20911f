package model

// Friend identifies another user's data record: Country is the partition and
// Name the row.
type Friend struct {
	Country string
	Name    string
}

func (f Friend) String() string {
	return f.Country + "/" + f.Name
}
