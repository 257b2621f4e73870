package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/ethvoyager95/quickswap-core/internal/script"
)

const scenarioTypeName = "scenario"

// Scenario is an ordered list of steps produced by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one scripted action. Kind is "from", "exec" or "run".
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile evaluates a Lua scenario script. The script builds
// a scene with Scenario.new and must return it; Lua supplies the looping
// and conditionals, each emitted step becomes one script line.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)

	registerScenarioType(state)
	registerScenarioConstructor(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}

	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

func registerScenarioType(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)
}

func registerScenarioConstructor(state *lua.State) {
	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	scenario := &Scenario{Name: name}
	state.PushUserData(scenario)
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "from", Function: scenarioFrom},
	{Name: "exec", Function: scenarioExec},
	{Name: "run", Function: scenarioRun},
}

// scenarioFrom switches the acting account for the following steps.
func scenarioFrom(state *lua.State) int {
	scenario := checkScenario(state)
	alias := lua.CheckString(state, 2)
	if strings.TrimSpace(alias) == "" {
		lua.Errorf(state, "from alias is required")
		return 0
	}
	appendStep(scenario, "from", map[string]any{"alias": alias})
	state.PushValue(1)
	return 1
}

// scenarioExec appends one raw script line.
func scenarioExec(state *lua.State) int {
	scenario := checkScenario(state)
	line := lua.CheckString(state, 2)
	if strings.TrimSpace(line) == "" {
		lua.Errorf(state, "exec line is required")
		return 0
	}
	appendStep(scenario, "exec", map[string]any{"line": line})
	state.PushValue(1)
	return 1
}

// scenarioRun appends a structured command, rendered to a script line when
// the scenario executes.
func scenarioRun(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	data := tableToMap(state, 2)
	if subsystem, _ := data["subsystem"].(string); strings.TrimSpace(subsystem) == "" {
		lua.Errorf(state, "run subsystem is required")
		return 0
	}
	if command, _ := data["command"].(string); strings.TrimSpace(command) == "" {
		lua.Errorf(state, "run command is required")
		return 0
	}
	appendStep(scenario, "run", data)
	state.PushValue(1)
	return 1
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
}

// stepLine renders one step to the script line the runner executes.
func stepLine(step Step) (string, error) {
	switch step.Kind {
	case "from":
		alias, _ := step.Args["alias"].(string)
		if alias == "" {
			return "", fmt.Errorf("from step has no alias")
		}
		return "from " + alias, nil
	case "exec":
		line, _ := step.Args["line"].(string)
		if line == "" {
			return "", fmt.Errorf("exec step has no line")
		}
		return line, nil
	case "run":
		subsystem, _ := step.Args["subsystem"].(string)
		command, _ := step.Args["command"].(string)
		if subsystem == "" || command == "" {
			return "", fmt.Errorf("run step needs subsystem and command")
		}
		parts := []string{subsystem, command}
		if args, ok := step.Args["args"].([]any); ok {
			for _, arg := range args {
				rendered, err := renderStepArg(arg)
				if err != nil {
					return "", err
				}
				parts = append(parts, rendered)
			}
		}
		return strings.Join(parts, " "), nil
	}
	return "", fmt.Errorf("unknown step kind %q", step.Kind)
}

// renderStepArg turns a Lua-sourced value into script token syntax.
func renderStepArg(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return script.Atom(v).String(), nil
	case int:
		return strconv.Itoa(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			rendered, err := renderStepArg(item)
			if err != nil {
				return "", err
			}
			parts[i] = rendered
		}
		return "(" + strings.Join(parts, " ") + ")", nil
	}
	return "", fmt.Errorf("unsupported argument type %T", value)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo maps dense 1-based integer-keyed tables to slices and
// everything else to string-keyed maps.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
