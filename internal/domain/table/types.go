package table

type Section string

const (
	SectionIndoor  Section = "indoor"
	SectionOutdoor Section = "outdoor"
	SectionBalcony Section = "balcony"
	SectionPrivate Section = "private"
)

func (s Section) String() string {
	return string(s)
}

func (s Section) IsValid() bool {
	switch s {
	case SectionIndoor, SectionOutdoor, SectionBalcony, SectionPrivate:
		return true
	default:
		return false
	}
}

func NewSection(s string) (Section, error) {
	section := Section(s)
	if !section.IsValid() {
		return "", ErrInvalidSection
	}
	return section, nil
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusReserved    Status = "reserved"
	StatusMaintenance Status = "maintenance"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusReserved, StatusMaintenance:
		return true
	default:
		return false
	}
}

func NewStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}
