package check

import (
	"fmt"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/actioncheck/internal/canonical"
)

// ContainsObjectLike asserts list has at least one element carrying every key
// of partial with an equal value. Elements and partial are compared through
// their JSON form, so structs match by their json tags.
func ContainsObjectLike(t TestingT, list any, partial any) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}

	idx, err := IndexObjectLike(list, partial)
	if err != nil {
		return assert.Fail(t, "cannot match objects", err.Error())
	}
	if idx >= 0 {
		return true
	}
	return assert.Fail(t,
		fmt.Sprintf("no element matches %s", canonical.String(partial)),
		fmt.Sprintf("list: %s", canonical.String(list)))
}

// IndexObjectLike returns the index of the first element of list that is
// like partial, or -1.
func IndexObjectLike(list any, partial any) (int, error) {
	want, err := normalizeObject(partial)
	if err != nil {
		return -1, err
	}

	tree, err := canonical.Normalize(list)
	if err != nil {
		return -1, err
	}
	if tree == nil {
		return -1, nil
	}
	items, ok := tree.([]any)
	if !ok {
		return -1, fmt.Errorf("%T is not a list", list)
	}

	for i, item := range items {
		if objectLike(item, want) {
			return i, nil
		}
	}
	return -1, nil
}

// IsObjectLike reports whether v carries every key of partial with an equal
// value.
func IsObjectLike(v any, partial any) (bool, error) {
	want, err := normalizeObject(partial)
	if err != nil {
		return false, err
	}
	tree, err := canonical.Normalize(v)
	if err != nil {
		return false, err
	}
	return objectLike(tree, want), nil
}

func normalizeObject(partial any) (map[string]any, error) {
	tree, err := canonical.Normalize(partial)
	if err != nil {
		return nil, err
	}
	obj, ok := tree.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("partial must be an object, got %T", partial)
	}
	return obj, nil
}

func objectLike(v any, want map[string]any) bool {
	obj, ok := v.(map[string]any)
	if !ok {
		return false
	}
	for k, w := range want {
		got, ok := obj[k]
		if !ok || !canonical.Equal(got, w) {
			return false
		}
	}
	return true
}
