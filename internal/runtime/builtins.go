package runtime

// Builtin classes. Registered under their bare names: the typistry
// never stores them, and their code fragments are the names themselves.
var (
	ObjectClass = &Class{Name: "Object"}
	ClassClass  = &Class{Name: "Class", Bases: []*Class{ObjectClass}}
	ModuleClass = &Class{Name: "Module", Bases: []*Class{ObjectClass}}
	FunClass    = &Class{Name: "Fun", Bases: []*Class{ObjectClass}}
	StrClass    = &Class{Name: "Str", Bases: []*Class{ObjectClass}}
	IntClass    = &Class{Name: "Int", Bases: []*Class{ObjectClass}}
	FloatClass  = &Class{Name: "Float", Bases: []*Class{ObjectClass}}
	BoolClass   = &Class{Name: "Bool", Bases: []*Class{ObjectClass}}
	ListClass   = &Class{Name: "List", Bases: []*Class{ObjectClass}}
	MapClass    = &Class{Name: "Map", Bases: []*Class{ObjectClass}}
	TupleClass  = &Class{Name: "Tuple", Bases: []*Class{ObjectClass}}
	BytesClass  = &Class{Name: "Bytes", Bases: []*Class{ObjectClass}}
	NilClass    = &Class{Name: "Nil", Bases: []*Class{ObjectClass}}
)

var builtinClasses = map[string]*Class{
	"Object": ObjectClass,
	"Class":  ClassClass,
	"Module": ModuleClass,
	"Fun":    FunClass,
	"Str":    StrClass,
	"Int":    IntClass,
	"Float":  FloatClass,
	"Bool":   BoolClass,
	"List":   ListClass,
	"Map":    MapClass,
	"Tuple":  TupleClass,
	"Bytes":  BytesClass,
	"Nil":    NilClass,
}

// BuiltinClass returns the builtin class registered under name.
func BuiltinClass(name string) (*Class, bool) {
	cls, ok := builtinClasses[name]
	return cls, ok
}

// IsBuiltinName reports whether name is a builtin class name.
func IsBuiltinName(name string) bool {
	_, ok := builtinClasses[name]
	return ok
}

// IsBuiltinClass reports whether cls is one of the builtin classes.
func IsBuiltinClass(cls *Class) bool {
	registered, ok := builtinClasses[cls.Name]
	return ok && registered == cls
}

// Builtins returns the builtin class table for environment seeding.
// Callers must not mutate it.
func Builtins() map[string]*Class {
	return builtinClasses
}
