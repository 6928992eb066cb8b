package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/clipview/clipview/constant"
	"github.com/clipview/clipview/filesystem"
	"github.com/clipview/clipview/log"
	"github.com/clipview/clipview/util"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// ScriptResolver resolves through a Lua function.
// Every call runs in a fresh sandboxed state, so scripts cannot keep state between calls.
type ScriptResolver struct {
	variant Variant
	proto   *lua.FunctionProto
}

// CompileScript parses a Lua resolver and checks that it defines the Resolve function.
func CompileScript(variant Variant, name string, source string) (*ScriptResolver, error) {
	chunk, err := parse.Parse(strings.NewReader(source), name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}

	s := &ScriptResolver{variant: variant, proto: proto}

	L, err := s.load()
	if err != nil {
		return nil, err
	}
	defer L.Close()

	if L.GetGlobal(constant.ResolveFn).Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.ResolveFn, name)
	}

	return s, nil
}

// LoadScript reads and compiles a resolver script. The variant is named after the file stem.
func LoadScript(path string) (*ScriptResolver, error) {
	contents, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}
	return CompileScript(Variant(util.FileStem(path)), path, string(contents))
}

// LoadScripts registers every *.lua file in dir as a variant.
// Broken scripts are logged and skipped.
func LoadScripts(dir string) ([]Variant, error) {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var loaded []Variant
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}

		script, err := LoadScript(filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warnf("skipping resolver script %s: %v", entry.Name(), err)
			continue
		}

		if err := Register(script.variant, script); err != nil {
			log.Warnf("skipping resolver script %s: %v", entry.Name(), err)
			continue
		}
		loaded = append(loaded, script.variant)
	}

	return loaded, nil
}

// Variant returns the variant the script is registered under.
func (s *ScriptResolver) Variant() Variant {
	return s.variant
}

// Resolve calls the script's Resolve(descriptor) function.
func (s *ScriptResolver) Resolve(descriptor string) (string, error) {
	invalid := func(reason string) error {
		return &InvalidSourceError{Descriptor: descriptor, Variant: s.variant, Reason: reason}
	}

	L, err := s.load()
	if err != nil {
		return "", invalid(err.Error())
	}
	defer L.Close()

	err = L.CallByParam(lua.P{
		Fn:      L.GetGlobal(constant.ResolveFn),
		NRet:    2,
		Protect: true,
	}, lua.LString(descriptor))
	if err != nil {
		return "", invalid(err.Error())
	}

	result, message := L.Get(-2), L.Get(-1)
	L.Pop(2)

	if str, ok := result.(lua.LString); ok && str != "" {
		return string(str), nil
	}

	if message != lua.LNil {
		return "", invalid(message.String())
	}
	return "", invalid("resolver returned no URL")
}

// load creates a sandboxed state and runs the compiled chunk in it.
func (s *ScriptResolver) load() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.open),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, err
		}
	}

	// base lib functions that reach the filesystem or stdout
	for _, name := range []string{"dofile", "loadfile", "print"} {
		L.SetGlobal(name, lua.LNil)
	}

	L.Push(L.NewFunctionFromProto(s.proto))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, err
	}

	return L, nil
}
