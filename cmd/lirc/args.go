package main

import (
	"fmt"

	"github.com/deepnoodle-ai/lirc/types"
	"github.com/tidwall/gjson"
)

// parseArgs reads transaction arguments from a JSON array. Elements are
// either {"type": kind, "value": text} objects or bare numbers and booleans,
// which become u64 and bool arguments.
func parseArgs(text string) ([]types.TransactionArgument, error) {
	if text == "" {
		return nil, nil
	}
	if !gjson.Valid(text) {
		return nil, fmt.Errorf("--args: invalid JSON")
	}
	list := gjson.Parse(text)
	if !list.IsArray() {
		return nil, fmt.Errorf("--args: expected a JSON array")
	}
	var out []types.TransactionArgument
	var err error
	list.ForEach(func(i, item gjson.Result) bool {
		var arg types.TransactionArgument
		arg, err = parseArg(item)
		if err != nil {
			err = fmt.Errorf("--args[%d]: %w", i.Int(), err)
			return false
		}
		out = append(out, arg)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func parseArg(item gjson.Result) (types.TransactionArgument, error) {
	switch item.Type {
	case gjson.Number:
		return types.ParseArgument(types.ArgU64, item.String())
	case gjson.True, gjson.False:
		return types.BoolArgument(item.Bool()), nil
	case gjson.JSON:
		if !item.IsObject() {
			break
		}
		kindName := item.Get("type")
		value := item.Get("value")
		if !kindName.Exists() || !value.Exists() {
			return types.TransactionArgument{}, fmt.Errorf(`expected "type" and "value" fields`)
		}
		kind, err := types.ParseArgumentKind(kindName.String())
		if err != nil {
			return types.TransactionArgument{}, err
		}
		return types.ParseArgument(kind, value.String())
	}
	return types.TransactionArgument{}, fmt.Errorf("unsupported argument %s", item.Raw)
}
