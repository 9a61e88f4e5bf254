package ndef

// ValueKindEnum tells which of the value slots of a Value is meaningful.
type ValueKindEnum int

const (
	ValueUndefined ValueKindEnum = iota // zero value: absent slot
	ValueNull
	ValueScalar
	ValueObject

	// ValueKindTotal is a constant that represents the total number of kinds defined
	ValueKindTotal = int(iota)
)

func (k ValueKindEnum) String() string {
	switch k {
	case ValueUndefined:
		return "undefined"
	case ValueNull:
		return "null"
	case ValueScalar:
		return "scalar"
	case ValueObject:
		return "object"
	default:
		return "ValueKindEnum(?)"
	}
}

// ObjectKindEnum discriminates object nodes from list nodes.
type ObjectKindEnum int

const (
	ObjectKindObject ObjectKindEnum = iota
	ObjectKindList
)

func (k ObjectKindEnum) String() string {
	if k == ObjectKindList {
		return "list"
	}

	return "object"
}

// ResolutionEnum is the read-path state of a graph node.
type ResolutionEnum int

const (
	Unresolved      ResolutionEnum = iota // header present, no instance
	InstanceCreated                       // factory invoked, fields not yet populated
	Populated                             // fields filled from the node elements
)

func (r ResolutionEnum) String() string {
	switch r {
	case Unresolved:
		return "unresolved"
	case InstanceCreated:
		return "instance-created"
	case Populated:
		return "populated"
	default:
		return "ResolutionEnum(?)"
	}
}
