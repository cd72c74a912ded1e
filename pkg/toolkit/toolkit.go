// Package toolkit provides the stock capabilities the demo mesh is built
// from: a calculator and a text processor tool, the user directory resource,
// and ready-made agents combining them.
package toolkit

import (
	"context"
	"strings"

	"github.com/ubermorgenland/mcp-mesh/pkg/capability"
	"github.com/ubermorgenland/mcp-mesh/pkg/mcp"
	"github.com/ubermorgenland/mcp-mesh/pkg/memory"
)

// Calculator returns the arithmetic tool and its handler. Division by zero
// fails with an invalid-arguments error instead of returning Inf.
func Calculator() (mcp.Tool, capability.ToolHandler) {
	tool := mcp.NewTool("calculator",
		mcp.WithDescription("Perform basic arithmetic operations"),
		mcp.WithStringEnum("operation", []string{"add", "subtract", "multiply", "divide"},
			mcp.Required(), mcp.Description("Arithmetic operation to perform")),
		mcp.WithNumber("a", mcp.Required(), mcp.Description("First operand")),
		mcp.WithNumber("b", mcp.Required(), mcp.Description("Second operand")),
	)

	handler := func(ctx context.Context, args mcp.Arguments) (any, error) {
		operation, err := args.String("operation")
		if err != nil {
			return nil, err
		}
		a, err := args.Float("a")
		if err != nil {
			return nil, err
		}
		b, err := args.Float("b")
		if err != nil {
			return nil, err
		}

		switch operation {
		case "add":
			return a + b, nil
		case "subtract":
			return a - b, nil
		case "multiply":
			return a * b, nil
		case "divide":
			if b == 0 {
				return nil, mcp.NewInvalidArgumentsError("division by zero")
			}
			return a / b, nil
		default:
			// The schema enum normally catches this before the handler runs.
			return nil, mcp.Errorf(mcp.ErrorKindInvalidArguments, "unknown operation: %s", operation)
		}
	}

	return tool, handler
}

// TextProcessor returns the string transformation tool and its handler
func TextProcessor() (mcp.Tool, capability.ToolHandler) {
	tool := mcp.NewTool("text_processor",
		mcp.WithDescription("Transform text"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to transform")),
		mcp.WithStringEnum("operation", []string{"uppercase", "lowercase", "reverse"},
			mcp.Required(), mcp.Description("Transformation to apply")),
	)

	handler := func(ctx context.Context, args mcp.Arguments) (any, error) {
		text, err := args.String("text")
		if err != nil {
			return nil, err
		}
		operation, err := args.String("operation")
		if err != nil {
			return nil, err
		}

		switch operation {
		case "uppercase":
			return strings.ToUpper(text), nil
		case "lowercase":
			return strings.ToLower(text), nil
		case "reverse":
			return reverseString(text), nil
		default:
			return nil, mcp.Errorf(mcp.ErrorKindInvalidArguments, "unknown operation: %s", operation)
		}
	}

	return tool, handler
}

// reverseString reverses by rune so multi-byte text survives
func reverseString(s string) string {
	runes := []rune(s)
	sb := memory.GetBuilder()
	defer memory.PutBuilder(sb)
	sb.Grow(len(s))
	for i := len(runes) - 1; i >= 0; i-- {
		sb.WriteRune(runes[i])
	}
	return sb.String()
}
