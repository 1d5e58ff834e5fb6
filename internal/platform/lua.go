package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable installs a read-only global `platform` table into
// the Lua state. Configs branch on it to vary fields by machine:
//
//	zline = {
//	    field_order = { "hostname", platform.when(platform.is_linux, "cpu_temp"), "datetime" },
//	}
//
// Call this before loading any user code.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	t := L.NewTable()

	L.SetField(t, "os", lua.LString(info.OS))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "arch_raw", lua.LString(info.ArchRaw))

	L.SetField(t, "is_linux", lua.LBool(info.IsLinux()))
	L.SetField(t, "is_macos", lua.LBool(info.IsMacOS()))

	if distro := info.GetDistro(); distro != nil {
		dt := L.NewTable()
		L.SetField(dt, "id", lua.LString(distro.ID))
		L.SetField(dt, "family", lua.LString(distro.Family))
		L.SetField(dt, "version", lua.LString(distro.Version))
		L.SetField(t, "distro", dt)
	} else {
		L.SetField(t, "distro", lua.LNil)
	}

	for family, is := range map[string]bool{
		"is_debian_family": info.Family == FamilyDebian,
		"is_rhel_family":   info.Family == FamilyRHEL,
		"is_fedora_family": info.Family == FamilyFedora,
		"is_suse_family":   info.Family == FamilySUSE,
		"is_arch_family":   info.Family == FamilyArch,
		"is_alpine":        info.Family == FamilyAlpine,
		"is_gentoo":        info.Family == FamilyGentoo,
	} {
		L.SetField(t, family, lua.LBool(is && info.IsLinux()))
	}

	// when(cond, value) returns value when cond holds, nil otherwise.
	// Inside an array constructor the nil simply drops the element.
	L.SetField(t, "when", L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		if cond {
			L.Push(L.Get(2))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	L.SetGlobal("platform", readOnly(L, t))
	return nil
}

// readOnly wraps a table in an empty proxy whose metatable redirects
// reads to the original and rejects every write, so user code cannot
// spoof the platform it runs on.
func readOnly(L *lua.LState, t *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", t)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
