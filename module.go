package inject

// Module groups related service registrations so they can be applied to
// a collection together. Any func(*ServiceCollection) is a Module, and
// instantiated generic registration functions are Modules as-is:
//
//	var StorageModule = inject.NewModule(
//	    inject.AddSingleton[*Database],
//	    inject.AddScoped[*UserRepository],
//	)
//
//	var AppModule = inject.NewModule(
//	    StorageModule,
//	    func(c *inject.ServiceCollection) {
//	        inject.AddSingletonFactory(c, NewLogger)
//	    },
//	)
//
//	collection.AddModules(AppModule)
type Module func(*ServiceCollection)

// NewModule combines registrations and nested modules into one Module.
// Entries run in order; nil entries are skipped.
func NewModule(modules ...Module) Module {
	return func(c *ServiceCollection) {
		for _, m := range modules {
			if m != nil {
				m(c)
			}
		}
	}
}

// AddModules applies each module to the collection in order.
func (c *ServiceCollection) AddModules(modules ...Module) {
	for _, m := range modules {
		if m != nil {
			m(c)
		}
	}
}
