package record

// TallyFields names the count fields a table uses for its vote breakdown.
type TallyFields struct {
	Ayes    string
	Nays    string
	Absent  string
	Excused string
}

// Senators spell out absences; nominees and slates abbreviate them.
var (
	SenatorTallyFields = TallyFields{Ayes: "Ayes", Nays: "Nays", Absent: "Absent", Excused: "Excused"}
	ResultTallyFields  = TallyFields{Ayes: "Ayes", Nays: "Nays", Absent: "Abs", Excused: "Exc"}
)

// Tally is a vote breakdown.
type Tally struct {
	Ayes    int `json:"ayes"    yaml:"ayes"`
	Nays    int `json:"nays"    yaml:"nays"`
	Absent  int `json:"absent"  yaml:"absent"`
	Excused int `json:"excused" yaml:"excused"`
}

// TallyOf reads a tally from r. Missing counts read as zero. ok is false when
// the record carries no Ayes field at all.
func TallyOf(r Record, f TallyFields) (Tally, bool) {
	if _, present := r.Fields[f.Ayes]; !present {
		return Tally{}, false
	}
	return Tally{
		Ayes:    int(r.Float(f.Ayes)),
		Nays:    int(r.Float(f.Nays)),
		Absent:  int(r.Float(f.Absent)),
		Excused: int(r.Float(f.Excused)),
	}, true
}

// Total is the number of senators accounted for.
func (t Tally) Total() int {
	return t.Ayes + t.Nays + t.Absent + t.Excused
}

// Percent returns n as a percentage of the total, or 0 for an empty tally.
func (t Tally) Percent(n int) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100 //nolint:mnd // percentage
}
