// Package script bridges check bodies written in embedded scripting
// languages to the probe contract.
//
// The compilation toolchain is a collaborator, not part of this package:
// an Engine turns source text into a Callable, and the adapter only needs
// "a callable returning a dynamic value". Engines are looked up by
// language name through a Registry:
//
//	reg := script.NewRegistry()
//	reg.Register(luaEngine)
//	reg.Register(script.NewCachingEngine(jsEngine, script.NewCompileCache(time.Hour)))
//
//	p, err := script.New(reg, script.Config{
//	    Name:     "orders-lag",
//	    Tags:     []string{"ready"},
//	    Language: "lua",
//	    Source:   luaSource,
//	})
//
// Whatever the body returns is decoded through an ordered extractor chain
// (already a probe.Result, a value with a status field, a bare status
// string) and its data is run through Normalize, which converts arbitrary
// dynamic value graphs into JSON-safe trees with a hard depth cap.
package script
