package fault

import (
	"fmt"
	"sync"
)

// Kind tags a family of exceptions. Kinds form a tree: a kind satisfies every
// kind on its parent chain.
type Kind string

// Built-in kinds.
const (
	KindException      Kind = "Exception"
	KindBusiness       Kind = "BusinessException"
	KindEntityNotFound Kind = "EntityNotFoundBusinessException"
	KindSecurity       Kind = "SecurityException"
	KindTechnical      Kind = "TechnicalException"
)

var (
	kindsMu sync.RWMutex
	parents = map[Kind]Kind{
		KindException:      "",
		KindBusiness:       KindException,
		KindEntityNotFound: KindBusiness,
		KindSecurity:       KindException,
		KindTechnical:      KindException,
	}
)

// Register adds kind as a child of parent. Re-registering a kind under the
// same parent is a no-op.
func Register(kind, parent Kind) error {
	if kind == "" {
		return fmt.Errorf("kind must not be empty")
	}

	kindsMu.Lock()
	defer kindsMu.Unlock()

	if _, ok := parents[parent]; !ok {
		return fmt.Errorf("unknown parent kind %q", parent)
	}
	if existing, ok := parents[kind]; ok {
		if existing == parent {
			return nil
		}
		return fmt.Errorf("kind %q already registered under %q", kind, existing)
	}
	// parent is known and kind is not, so the chain from parent cannot reach kind.
	parents[kind] = parent
	return nil
}

// Known reports whether k has been registered.
func Known(k Kind) bool {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	_, ok := parents[k]
	return ok
}

// Parent returns the direct parent of k, or "" for the root and unknown kinds.
func (k Kind) Parent() Kind {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	return parents[k]
}

// Is reports whether k is target or one of its descendants.
func (k Kind) Is(target Kind) bool {
	if target == "" {
		return false
	}

	kindsMu.RLock()
	defer kindsMu.RUnlock()

	for cur := k; cur != ""; cur = parents[cur] {
		if cur == target {
			return true
		}
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}
