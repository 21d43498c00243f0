package wii

import "github.com/tmaxmax/wiibuild/pkg/platform"

var flags = []platform.Flag{
	disable("tools", "editor is not yet supported on Wii"),

	// Unsupported on Wii
	disable("module_bullet_enabled", "missing semaphore.h"),
	disable("module_mbedtls_enabled", "mbedtls has not been ported to Wii"),
	disable("module_mobile_vr_enabled", "Wii is not mobile, nor capable of VR by default"),
	disable("module_theora_enabled", "undefined reference to oggpack_*"),
	disable("module_upnp_enabled", "missing sys/socket.h"),
	disable("module_webm_enabled", "missing semaphore.h"),
	disable("module_websocket_enabled", "missing netinet/in.h (wslay)"),

	// Found in portlibs
	disable("builtin_freetype", "ppc-freetype"),
	disable("builtin_libogg", "ppc-libogg"),
	disable("builtin_libpng", "ppc-libpng"),
	disable("builtin_libvorbis", "ppc-libvorbis"),
	disable("builtin_opus", "ppc-libopus + ppc-opusfile"),
	disable("builtin_pcre2_with_jit", "pcre2 JIT is unsupported"),
	disable("builtin_zlib", "ppc-zlib"),
	disable("builtin_zstd", "ppc-zstd"),

	// Not found in portlibs, but may be possible
	disable("builtin_mbedtls", "mbedtls needs to be ported to Wii"),
}

func disable(name, reason string) platform.Flag {
	return platform.Flag{Name: name, Value: false, Reason: reason}
}

// Flags returns the feature flag defaults of the Wii. The returned slice is a copy.
func (p *Platform) Flags() []platform.Flag {
	return append([]platform.Flag(nil), flags...)
}
