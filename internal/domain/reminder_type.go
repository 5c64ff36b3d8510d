package domain

// ReminderType classifies a reminder for per-type notification preferences.
type ReminderType string

const (
	TypeMedication ReminderType = "MEDICATION"
	TypeHygiene    ReminderType = "HYGIENE"
	TypeFood       ReminderType = "FOOD"
	TypeVisit      ReminderType = "VISIT"
	// TypeOther is the catch-all for notifications that carry no type.
	TypeOther ReminderType = "OTHER"
)

func (t ReminderType) String() string {
	return string(t)
}

func (t ReminderType) IsValid() bool {
	switch t {
	case TypeMedication, TypeHygiene, TypeFood, TypeVisit, TypeOther:
		return true
	}
	return false
}

// OrOther maps an empty or unknown type to TypeOther.
func (t ReminderType) OrOther() ReminderType {
	if t.IsValid() {
		return t
	}
	return TypeOther
}

// KnownTypes lists every type that carries its own preference entry.
func KnownTypes() []ReminderType {
	return []ReminderType{TypeMedication, TypeHygiene, TypeFood, TypeVisit, TypeOther}
}
