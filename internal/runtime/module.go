package runtime

// Module is the runtime namespace of a loaded module: its exported
// names mapped to their values.
type Module struct {
	Name  string // dotted module path
	File  string // source file, "" for virtual modules
	Doc   string
	Attrs map[string]Object
}

func (m *Module) ClassOf() *Class { return ModuleClass }
func (m *Module) Inspect() string { return "<module " + m.Name + ">" }

// Attr looks up an exported name.
func (m *Module) Attr(name string) (Object, bool) {
	obj, ok := m.Attrs[name]
	return obj, ok
}
