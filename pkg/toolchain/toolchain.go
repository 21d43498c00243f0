/*
Package toolchain describes GCC cross toolchains whose executables share
a target prefix (for example powerpc-eabi-gcc, powerpc-eabi-ar) and looks
their executables up in explicitly given process environments.
*/
package toolchain

// Cross is a GCC cross toolchain. All its executables are named Prefix + tool.
type Cross struct {
	Prefix string
}

// Tool returns the prefixed name of the given toolchain executable.
func (c Cross) Tool(name string) string {
	return c.Prefix + name
}

// CC is the C compiler.
func (c Cross) CC() string { return c.Tool("gcc") }

// CXX is the C++ compiler.
func (c Cross) CXX() string { return c.Tool("g++") }

// LD is the linker.
func (c Cross) LD() string { return c.Tool("ld") }

// AR returns the archiver. With link-time optimization enabled the
// plugin-aware gcc-ar wrapper must be used.
func (c Cross) AR(lto bool) string {
	if lto {
		return c.Tool("gcc-ar")
	}
	return c.Tool("ar")
}

// Ranlib returns the archive indexer, gcc-ranlib when link-time optimization is enabled.
func (c Cross) Ranlib(lto bool) string {
	if lto {
		return c.Tool("gcc-ranlib")
	}
	return c.Tool("ranlib")
}

// PkgConfig is the pkg-config wrapper configured for the target's libraries.
func (c Cross) PkgConfig() string { return c.Tool("pkg-config") }
