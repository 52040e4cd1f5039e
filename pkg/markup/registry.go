// registry.go maps finalization keys to container constructors.
package markup

// Factory builds an empty container of one kind.
type Factory func() *Container

// Registry maps a finalization key (usually the label of the token starting a range)
// to the container constructor used when the range is encapsulated.
// A registry is read-only once handed to an engine.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds key to f, replacing any previous binding.
func (r *Registry) Register(key string, f Factory) {
	r.factories[key] = f
}

// RegisterKind binds key to a constructor for container kind k.
func (r *Registry) RegisterKind(key string, k ContainerKind) {
	r.Register(key, func() *Container { return newContainer(k) })
}

// Lookup returns the constructor for key.
func (r *Registry) Lookup(key string) (Factory, error) {
	f, ok := r.factories[key]
	if !ok {
		return nil, &RegistryError{Key: key}
	}
	return f, nil
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	return len(r.factories)
}

var defaultRegistry = newDefaultRegistry()

// DefaultRegistry returns the registry covering every label the lexer produces.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterKind(LabelText, ContainerText)
	r.RegisterKind(LabelEm, ContainerEm)
	r.RegisterKind(LabelStrong, ContainerStrong)
	r.RegisterKind(LabelUnderline, ContainerUnderline)
	r.RegisterKind(LabelStrikethrough, ContainerStrikethrough)
	r.RegisterKind(LabelCustomSpan, ContainerCustomSpan)
	r.RegisterKind(LabelUlist, ContainerUlist)
	r.RegisterKind(LabelOlist, ContainerOlist)
	r.RegisterKind(LabelHeader, ContainerHeader)
	r.RegisterKind(LabelDisplay, ContainerDisplay)
	r.RegisterKind(LabelStructuralStart, ContainerStructural)
	r.RegisterKind(LabelHyperlink, ContainerHyperlink)
	r.RegisterKind(LabelImage, ContainerImage)
	r.RegisterKind(LabelLinebreak, ContainerLinebreak)
	r.RegisterKind(LabelTableRow, ContainerTable)
	r.RegisterKind(LabelTableSeparator, ContainerTable)
	r.RegisterKind(LabelTableCell, ContainerTableCell)
	return r
}
