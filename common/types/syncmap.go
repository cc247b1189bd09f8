package types

import "sync"

// SyncMap is a string keyed map safe for concurrent use.
type SyncMap struct {
	data map[string]interface{}
	lock *sync.RWMutex
}

func NewSyncMap() *SyncMap {
	return &SyncMap{
		data: make(map[string]interface{}),
		lock: &sync.RWMutex{},
	}
}

func (smap *SyncMap) GetGeneric(id string) interface{} {
	smap.lock.RLock()
	defer smap.lock.RUnlock()

	return smap.data[id]
}

func (smap *SyncMap) Set(id string, item interface{}) {
	smap.lock.Lock()
	smap.data[id] = item
	smap.lock.Unlock()
}

func (smap *SyncMap) Remove(id string) {
	smap.lock.Lock()
	delete(smap.data, id)
	smap.lock.Unlock()
}

func (smap *SyncMap) Size() int {
	smap.lock.RLock()
	defer smap.lock.RUnlock()

	return len(smap.data)
}

// ToArrayGeneric returns a snapshot of the values, in no particular order.
func (smap *SyncMap) ToArrayGeneric() []interface{} {
	smap.lock.RLock()
	defer smap.lock.RUnlock()

	res := make([]interface{}, 0, len(smap.data))
	for _, item := range smap.data {
		res = append(res, item)
	}

	return res
}
