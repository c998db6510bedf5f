package fracture

import (
	"github.com/akmonengine/shatter/actor"
	"github.com/akmonengine/shatter/scene"
)

// Context owns the simulation state shared by the Spawner and the Engine
type Context struct {
	World    PhysicsWorld
	Scene    SceneGraph
	Registry *Registry
	Queue    *RemovalQueue

	bodies  map[*scene.Object]*actor.RigidBody
	objects map[*actor.RigidBody]*scene.Object
}

func NewContext(world PhysicsWorld, graph SceneGraph) *Context {
	return &Context{
		World:    world,
		Scene:    graph,
		Registry: NewRegistry(),
		Queue:    NewRemovalQueue(),
		bodies:   make(map[*scene.Object]*actor.RigidBody),
		objects:  make(map[*actor.RigidBody]*scene.Object),
	}
}

// AddDynamic adds obj to the scene and its body to the world, and registers
// the pair. Registered bodies never sleep.
func (c *Context) AddDynamic(obj *scene.Object, body *actor.RigidBody) {
	body.AlwaysActive = true
	c.link(obj, body)
	c.Registry.Add(obj)
}

// AddStatic adds a pair that is mapped but not registered: ground, walls
func (c *Context) AddStatic(obj *scene.Object, body *actor.RigidBody) {
	c.link(obj, body)
}

func (c *Context) link(obj *scene.Object, body *actor.RigidBody) {
	c.Scene.Add(obj)
	c.World.AddBody(body)
	c.bodies[obj] = body
	c.objects[body] = obj
}

// BodyOf returns nil for objects without a body
func (c *Context) BodyOf(obj *scene.Object) *actor.RigidBody {
	return c.bodies[obj]
}

// ObjectOf returns nil for bodies without an object
func (c *Context) ObjectOf(body *actor.RigidBody) *scene.Object {
	return c.objects[body]
}

// Remove takes obj out of the scene, its body out of the world, and forgets both
func (c *Context) Remove(obj *scene.Object) {
	c.Scene.Remove(obj)

	if body, ok := c.bodies[obj]; ok {
		c.World.RemoveBody(body)
		delete(c.objects, body)
		delete(c.bodies, obj)
	}

	c.Registry.Remove(obj)
}

// Flush removes every queued object and returns how many were removed
func (c *Context) Flush() int {
	removed := c.Queue.Drain()
	for _, obj := range removed {
		c.Remove(obj)
	}

	return len(removed)
}
