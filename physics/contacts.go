package physics

import (
	"github.com/bytearena/box2d"
	"github.com/bytearena/whiskers/common/types"
)

type contactListener struct { /* implements box2d.B2World.B2ContactListenerInterface */
	world  *World
	buffer []Contact
}

func newContactListener(world *World) *contactListener {
	return &contactListener{
		world:  world,
		buffer: make([]Contact, 0),
	}
}

func (listener *contactListener) PopContacts() []Contact {
	defer func() { listener.buffer = make([]Contact, 0) }()
	return listener.buffer
}

// Called when two fixtures begin to touch.
func (listener *contactListener) BeginContact(contact box2d.B2ContactInterface) { // contact has to be backed by a pointer
	descriptorA, ok := contact.GetFixtureA().GetBody().GetUserData().(types.PhysicalBodyDescriptor)
	if !ok {
		return
	}

	descriptorB, ok := contact.GetFixtureB().GetBody().GetUserData().(types.PhysicalBodyDescriptor)
	if !ok {
		return
	}

	for _, descriptor := range []types.PhysicalBodyDescriptor{descriptorA, descriptorB} {
		if !descriptor.IsCar() {
			continue
		}

		if body := listener.world.GetBody(descriptor.ID); body != nil {
			body.contacts++
		}
	}

	listener.buffer = append(listener.buffer, Contact{
		A: descriptorA,
		B: descriptorB,
	})
}

func (listener *contactListener) EndContact(contact box2d.B2ContactInterface) {}

func (listener *contactListener) PreSolve(contact box2d.B2ContactInterface, oldManifold box2d.B2Manifold) {}

func (listener *contactListener) PostSolve(contact box2d.B2ContactInterface, impulse *box2d.B2ContactImpulse) {}

// Involves reports whether the contact touches the body with the given id.
func (c Contact) Involves(id string) bool {
	return c.A.ID == id || c.B.ID == id
}
