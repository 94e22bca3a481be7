package ecs

import "slices"

// EntityID is a small non-negative integer. Ids are recycled through the
// pool's free list so they never grow past the peak live count.
type EntityID int

// EntityPool hands out the lowest id not currently in use.
type EntityPool struct {
	alive     []bool
	freeList  []EntityID // ascending
	nextIndex EntityID
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		alive:    make([]bool, 0, 16),
		freeList: make([]EntityID, 0, 16),
	}
}

// Create reuses the smallest freed id, or mints the next unused one.
func (p *EntityPool) Create() EntityID {
	if len(p.freeList) > 0 {
		id := p.freeList[0]
		p.freeList = p.freeList[1:]
		p.alive[id] = true
		return id
	}
	id := p.nextIndex
	p.nextIndex++
	p.alive = append(p.alive, true)
	return id
}

func (p *EntityPool) Alive(id EntityID) bool {
	if id < 0 || id >= p.nextIndex {
		return false
	}
	return p.alive[id]
}

// Destroy retires id onto the free list. Unknown or already freed ids are ignored.
func (p *EntityPool) Destroy(id EntityID) {
	if !p.Alive(id) {
		return
	}
	p.alive[id] = false
	at, _ := slices.BinarySearch(p.freeList, id)
	p.freeList = slices.Insert(p.freeList, at, id)
}

// Free returns a copy of the free list, lowest id first.
func (p *EntityPool) Free() []EntityID {
	return slices.Clone(p.freeList)
}

// Live returns the number of ids currently handed out.
func (p *EntityPool) Live() int {
	return int(p.nextIndex) - len(p.freeList)
}
