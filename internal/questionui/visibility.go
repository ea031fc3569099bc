package questionui

import (
	"slices"
	"strings"
)

// hideUnwantedFeedback removes elements marked qpy:feedback="general" or
// "specific" when that kind of feedback is switched off.
func hideUnwantedFeedback(st *renderState) error {
	if st.opts == nil {
		return nil
	}
	nodes, err := scan(st.root, cFeedback)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		kind, _ := n.Get(QPYNamespace, "feedback")
		switch FeedbackKind(kind) {
		case FeedbackGeneral:
			if !st.opts.GeneralFeedback {
				n.Detach()
			}
		case FeedbackSpecific:
			if !st.opts.Feedback {
				n.Detach()
			}
		}
	}
	return nil
}

// hideIfRole removes elements whose qpy:if-role list does not contain the
// viewer's role. Admins see everything; without a role nothing is removed.
func hideIfRole(st *renderState) error {
	role, ok := st.opts.Role()
	if !ok || role == RoleAdmin {
		return nil
	}
	nodes, err := scan(st.root, cIfRole)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		allowed := strings.Fields(n.GetOr(QPYNamespace, "if-role", ""))
		if !slices.Contains(allowed, role) {
			n.Detach()
		}
	}
	return nil
}
