package dispatch

import (
	"sort"
	"sync"
)

// Outputs collects named results of one dispatch. Handlers may write from
// several goroutines.
type Outputs struct {
	mu     sync.Mutex
	values map[string]interface{}
}

func NewOutputs() *Outputs {
	return &Outputs{values: make(map[string]interface{})}
}

// Set stores v under name, replacing an earlier value.
func (o *Outputs) Set(name string, v interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.values[name] = v
}

func (o *Outputs) Get(name string) (interface{}, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.values[name]
	return v, ok
}

// Names returns the output names in sorted order.
func (o *Outputs) Names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]string, 0, len(o.values))
	for k := range o.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy suitable for JSON encoding.
func (o *Outputs) Map() map[string]interface{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	m := make(map[string]interface{}, len(o.values))
	for k, v := range o.values {
		m[k] = v
	}
	return m
}
