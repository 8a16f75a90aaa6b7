package querybuilder

// Catalog is the set of discovered query builder methods. It is not safe for concurrent mutation.
type Catalog struct {
	descriptors map[MethodDescriptor]struct{}
}

func NewCatalog() *Catalog {
	return &Catalog{descriptors: make(map[MethodDescriptor]struct{})}
}

// Add inserts the descriptor and reports whether it was new.
func (c *Catalog) Add(descriptor MethodDescriptor) bool {
	if _, exists := c.descriptors[descriptor]; exists {
		return false
	}

	c.descriptors[descriptor] = struct{}{}

	return true
}

// Discover adds one descriptor per method of every builder declared by the modules
// and returns the descriptors that were new, sorted. Loading a module twice adds nothing.
func (c *Catalog) Discover(modules ...Module) []MethodDescriptor {
	added := make([]MethodDescriptor, 0)

	for _, module := range modules {
		for _, declaration := range module.builders {
			for _, descriptor := range declaration.Descriptors() {
				if c.Add(descriptor) {
					added = append(added, descriptor)
				}
			}
		}
	}

	return sortDescriptors(added)
}

func (c *Catalog) Contains(descriptor MethodDescriptor) bool {
	_, exists := c.descriptors[descriptor]

	return exists
}

// Descriptors returns all descriptors sorted by qualified method name.
func (c *Catalog) Descriptors() []MethodDescriptor {
	descriptors := make([]MethodDescriptor, 0, len(c.descriptors))
	for descriptor := range c.descriptors {
		descriptors = append(descriptors, descriptor)
	}

	return sortDescriptors(descriptors)
}

func (c *Catalog) Len() int {
	return len(c.descriptors)
}
