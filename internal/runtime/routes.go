package runtime

import (
	"github.com/patterflow/patter/internal/condition"
	"github.com/patterflow/patter/pkg/domain"
)

// ResolveRoute selects the destination for an autoroute message.
//
// Non-default routes are evaluated in listed order; the first whose condition
// holds wins. When none match, the single default route is used. The final
// return is false only when no route matched and no default exists — a dead
// end the validator should have prevented, handled defensively by the queue.
func ResolveRoute(routes []domain.RouteCondition, lookup condition.LookupFunc) (domain.Destination, bool) {
	var fallback *domain.RouteCondition
	for i := range routes {
		r := &routes[i]
		if r.IsDefault {
			if fallback == nil {
				fallback = r
			}
			continue
		}
		if condition.Evaluate(r.Condition, lookup) {
			return r.Destination(), true
		}
	}
	if fallback != nil {
		return fallback.Destination(), true
	}
	return domain.Destination{}, false
}
