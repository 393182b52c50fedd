package volatile

import (
	"fmt"
	"strings"
	"sync"

	"gallery/internal/model"
)

// Personas keeps users and administrators in insertion order. Ids are assigned
// by the store and never reused.
type Personas struct {
	mutex  *sync.RWMutex
	list   []model.Persona
	nextId int
}

func NewPersonas() *Personas {
	personas := &Personas{
		mutex:  &sync.RWMutex{},
		list:   []model.Persona{},
		nextId: 1,
	}
	return personas
}

func (personas *Personas) Len() int {
	personas.mutex.RLock()
	defer personas.mutex.RUnlock()
	return len(personas.list)
}

func (personas *Personas) Create(persona model.Persona) (model.Persona, error) {
	if err := persona.Validate(); err != nil {
		return model.Persona{}, err
	}
	personas.mutex.Lock()
	defer personas.mutex.Unlock()
	if personas.emailTaken(persona.Email, 0) {
		return model.Persona{}, fmt.Errorf(`email "%s": %w`, persona.Email, model.ErrAlreadyExists)
	}
	persona.Id = personas.nextId
	personas.nextId++
	personas.list = append(personas.list, persona)
	return persona, nil
}

func (personas *Personas) List() []model.Persona {
	personas.mutex.RLock()
	defer personas.mutex.RUnlock()
	list := make([]model.Persona, len(personas.list))
	copy(list, personas.list)
	return list
}

func (personas *Personas) Filter(role model.Role) []model.Persona {
	personas.mutex.RLock()
	defer personas.mutex.RUnlock()
	list := []model.Persona{}
	for _, persona := range personas.list {
		if persona.Tipo == role {
			list = append(list, persona)
		}
	}
	return list
}

func (personas *Personas) Get(id int) (model.Persona, error) {
	personas.mutex.RLock()
	defer personas.mutex.RUnlock()
	if index := personas.index(id); index >= 0 {
		return personas.list[index], nil
	}
	return model.Persona{}, fmt.Errorf(`persona %d: %w`, id, model.ErrNotFound)
}

// Update replaces the persona stored under id. The id in the replacement is
// ignored; the stored id is kept.
func (personas *Personas) Update(id int, persona model.Persona) (model.Persona, error) {
	if err := persona.Validate(); err != nil {
		return model.Persona{}, err
	}
	personas.mutex.Lock()
	defer personas.mutex.Unlock()
	index := personas.index(id)
	if index < 0 {
		return model.Persona{}, fmt.Errorf(`persona %d: %w`, id, model.ErrNotFound)
	}
	if personas.emailTaken(persona.Email, id) {
		return model.Persona{}, fmt.Errorf(`email "%s": %w`, persona.Email, model.ErrAlreadyExists)
	}
	persona.Id = id
	personas.list[index] = persona
	return persona, nil
}

func (personas *Personas) Delete(id int) error {
	personas.mutex.Lock()
	defer personas.mutex.Unlock()
	index := personas.index(id)
	if index < 0 {
		return fmt.Errorf(`persona %d: %w`, id, model.ErrNotFound)
	}
	personas.list = append(personas.list[:index], personas.list[index+1:]...)
	return nil
}

func (personas *Personas) DeleteMany(ids []int) model.DeleteResult {
	personas.mutex.Lock()
	defer personas.mutex.Unlock()
	result, removed := partition(ids, func(id int) bool { return personas.index(id) >= 0 })
	remaining := []model.Persona{}
	for _, persona := range personas.list {
		if !removed(persona.Id) {
			remaining = append(remaining, persona)
		}
	}
	personas.list = remaining
	return result
}

func (personas *Personas) index(id int) int {
	for i, persona := range personas.list {
		if persona.Id == id {
			return i
		}
	}
	return -1
}

func (personas *Personas) emailTaken(email string, except int) bool {
	for _, persona := range personas.list {
		if persona.Id != except && strings.EqualFold(persona.Email, email) {
			return true
		}
	}
	return false
}

// partition splits ids into present and missing, each distinct id landing in
// exactly one list in first-seen order. The returned func reports whether an
// id was found present.
func partition(ids []int, present func(int) bool) (model.DeleteResult, func(int) bool) {
	result := model.DeleteResult{
		Removed: []int{},
		Missing: []int{},
	}
	seen := map[int]bool{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		found := present(id)
		seen[id] = found
		if found {
			result.Removed = append(result.Removed, id)
		} else {
			result.Missing = append(result.Missing, id)
		}
	}
	return result, func(id int) bool { return seen[id] }
}
