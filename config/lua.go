package config

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// MeshTable is the global table a Lua block description must define:
//
//	Mesh = {
//	    name = "slab",
//	    dimensions = {64, 32, 1},
//	    lower = {0, 0, 0}, upper = {2, 1, 0.1},
//	    ghost_width = {2, 2, 0},
//	    boundary = {"periodic", "wall", "wall"},
//	}
const MeshTable = "Mesh"

// LoadLuaFile runs a Lua script and reads its Mesh table
func LoadLuaFile(path string) (*BlockConfig, error) {
	return loadLua(func(L *lua.LState) error { return L.DoFile(path) }, path)
}

// ParseLua runs Lua source and reads its Mesh table
func ParseLua(src string) (*BlockConfig, error) {
	return loadLua(func(L *lua.LState) error { return L.DoString(src) }, "<string>")
}

func loadLua(run func(*lua.LState) error, origin string) (*BlockConfig, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.MathLibName, lua.OpenMath},
		{lua.StringLibName, lua.OpenString},
		{lua.TabLibName, lua.OpenTable},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	if err := run(L); err != nil {
		return nil, fmt.Errorf("failed to run block config %s: %w", origin, err)
	}
	tbl, ok := L.GetGlobal(MeshTable).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("block config %s does not define table %s", origin, MeshTable)
	}

	var cfg BlockConfig
	var err error
	if s, ok := tbl.RawGetString("name").(lua.LString); ok {
		cfg.Name = string(s)
	}
	if cfg.Dimensions, err = intTriple(tbl, "dimensions", true); err != nil {
		return nil, err
	}
	if cfg.Lower, err = floatTriple(tbl, "lower"); err != nil {
		return nil, err
	}
	if cfg.Upper, err = floatTriple(tbl, "upper"); err != nil {
		return nil, err
	}
	if tbl.RawGetString("ghost_width") != lua.LNil {
		g, err := intTriple(tbl, "ghost_width", true)
		if err != nil {
			return nil, err
		}
		cfg.GhostWidth = &g
	}
	if cfg.LocalOffset, err = intTriple(tbl, "local_offset", false); err != nil {
		return nil, err
	}
	if cfg.LocalExtent, err = intTriple(tbl, "local_extent", false); err != nil {
		return nil, err
	}
	if bt, ok := tbl.RawGetString("boundary").(*lua.LTable); ok {
		for axis := 0; axis < 3; axis++ {
			if s, ok := bt.RawGetInt(axis + 1).(lua.LString); ok {
				cfg.Boundary[axis] = string(s)
			}
		}
	}
	return finish(&cfg)
}

func numberTriple(tbl *lua.LTable, key string, required bool) (v [3]float64, err error) {
	lv := tbl.RawGetString(key)
	if lv == lua.LNil && !required {
		return v, nil
	}
	t, ok := lv.(*lua.LTable)
	if !ok || t.Len() != 3 {
		return v, fmt.Errorf("%s.%s must be a list of three numbers", MeshTable, key)
	}
	for i := 0; i < 3; i++ {
		n, ok := t.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			return v, fmt.Errorf("%s.%s[%d] is not a number", MeshTable, key, i+1)
		}
		v[i] = float64(n)
	}
	return v, nil
}

func floatTriple(tbl *lua.LTable, key string) ([3]float64, error) {
	return numberTriple(tbl, key, true)
}

func intTriple(tbl *lua.LTable, key string, required bool) (v [3]int, err error) {
	f, err := numberTriple(tbl, key, required)
	if err != nil {
		return v, err
	}
	for i := range f {
		if f[i] != float64(int(f[i])) {
			return v, fmt.Errorf("%s.%s[%d] = %g is not an integer", MeshTable, key, i+1, f[i])
		}
		v[i] = int(f[i])
	}
	return v, nil
}
