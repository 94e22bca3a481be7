package event

import "github.com/flappyball/core/internal/core/ecs"

// ObstacleSpawned is emitted for every obstacle appended to the tail.
type ObstacleSpawned struct {
	ID   ecs.EntityID
	Gap  int
	Side string
	X    float64
}

// ObstacleRemoved is emitted when the head obstacle leaves the view.
type ObstacleRemoved struct {
	ID ecs.EntityID
}

// Scored is emitted when the player clears a new gap.
type Scored struct {
	Score int
	Gap   int
}

// GameOver is emitted once, on the first contact.
type GameOver struct {
	Score int
}
