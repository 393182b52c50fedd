package volatile

import (
	"fmt"
	"sync"

	"gallery/internal/model"
)

type Faqs struct {
	mutex  *sync.RWMutex
	list   []model.Faq
	nextId int
}

func NewFaqs() *Faqs {
	faqs := &Faqs{
		mutex:  &sync.RWMutex{},
		list:   []model.Faq{},
		nextId: 1,
	}
	return faqs
}

func (faqs *Faqs) Create(faq model.Faq) (model.Faq, error) {
	if err := faq.Validate(); err != nil {
		return model.Faq{}, err
	}
	faqs.mutex.Lock()
	defer faqs.mutex.Unlock()
	faq.Id = faqs.nextId
	faqs.nextId++
	faqs.list = append(faqs.list, faq)
	return faq, nil
}

func (faqs *Faqs) List() []model.Faq {
	faqs.mutex.RLock()
	defer faqs.mutex.RUnlock()
	list := make([]model.Faq, len(faqs.list))
	copy(list, faqs.list)
	return list
}

func (faqs *Faqs) Get(id int) (model.Faq, error) {
	faqs.mutex.RLock()
	defer faqs.mutex.RUnlock()
	if index := faqs.index(id); index >= 0 {
		return faqs.list[index], nil
	}
	return model.Faq{}, fmt.Errorf(`faq %d: %w`, id, model.ErrNotFound)
}

func (faqs *Faqs) Update(id int, faq model.Faq) (model.Faq, error) {
	if err := faq.Validate(); err != nil {
		return model.Faq{}, err
	}
	faqs.mutex.Lock()
	defer faqs.mutex.Unlock()
	index := faqs.index(id)
	if index < 0 {
		return model.Faq{}, fmt.Errorf(`faq %d: %w`, id, model.ErrNotFound)
	}
	faq.Id = id
	faqs.list[index] = faq
	return faq, nil
}

func (faqs *Faqs) Delete(id int) error {
	faqs.mutex.Lock()
	defer faqs.mutex.Unlock()
	index := faqs.index(id)
	if index < 0 {
		return fmt.Errorf(`faq %d: %w`, id, model.ErrNotFound)
	}
	faqs.list = append(faqs.list[:index], faqs.list[index+1:]...)
	return nil
}

func (faqs *Faqs) DeleteMany(ids []int) model.DeleteResult {
	faqs.mutex.Lock()
	defer faqs.mutex.Unlock()
	result, removed := partition(ids, func(id int) bool { return faqs.index(id) >= 0 })
	remaining := []model.Faq{}
	for _, faq := range faqs.list {
		if !removed(faq.Id) {
			remaining = append(remaining, faq)
		}
	}
	faqs.list = remaining
	return result
}

func (faqs *Faqs) index(id int) int {
	for i, faq := range faqs.list {
		if faq.Id == id {
			return i
		}
	}
	return -1
}
