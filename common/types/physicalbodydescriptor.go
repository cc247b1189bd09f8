package types

// PhysicalBodyDescriptor is set as UserData on Box2D bodies so that contact callbacks can tell cars, obstacles and world bounds apart
type PhysicalBodyDescriptor struct {
	Type _physicaltype
	ID   string
}

type _physicaltype string

func (t _physicaltype) String() string {
	switch t {
	case PhysicalBodyDescriptorType.Car:
		return "Car"
	case PhysicalBodyDescriptorType.Obstacle:
		return "Obstacle"
	case PhysicalBodyDescriptorType.Bound:
		return "Bound"
	}

	return "UnknownType"
}

var PhysicalBodyDescriptorType = struct {
	Car      _physicaltype
	Obstacle _physicaltype
	Bound    _physicaltype
}{
	Car:      _physicaltype("c"),
	Obstacle: _physicaltype("o"),
	Bound:    _physicaltype("b"),
}

func MakePhysicalBodyDescriptor(type_ _physicaltype, id string) PhysicalBodyDescriptor {
	return PhysicalBodyDescriptor{
		Type: type_,
		ID:   id,
	}
}

func (d PhysicalBodyDescriptor) IsCar() bool {
	return d.Type == PhysicalBodyDescriptorType.Car
}
