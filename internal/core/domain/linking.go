package domain

// LinkState - состояние workflow "создать объект → привязать к родителю"
type LinkState int

const (
	LinkStateUnlinked LinkState = iota
	LinkStateCreating
	LinkStateCreated
	LinkStateLinking
	LinkStateLinked
	LinkStateFailed
)

func (s LinkState) String() string {
	switch s {
	case LinkStateUnlinked:
		return "unlinked"
	case LinkStateCreating:
		return "creating"
	case LinkStateCreated:
		return "created"
	case LinkStateLinking:
		return "linking"
	case LinkStateLinked:
		return "linked"
	case LinkStateFailed:
		return "link_failed"
	default:
		return "unknown"
	}
}

// LinkWorkflow - машина состояний отложенной привязки.
// Привязка откладывается до получения долговечного идентификатора:
// вызов attach с клиентской "заглушкой" - жесткое нарушение предусловия,
// а не повторяемая ошибка.
type LinkWorkflow struct {
	parentID   string
	propertyID string
	state      LinkState
}

// NewLinkWorkflow создает workflow в состоянии Unlinked для родительской сущности
func NewLinkWorkflow(parentID string) *LinkWorkflow {
	return &LinkWorkflow{parentID: parentID, state: LinkStateUnlinked}
}

func (w *LinkWorkflow) State() LinkState   { return w.state }
func (w *LinkWorkflow) ParentID() string   { return w.parentID }
func (w *LinkWorkflow) PropertyID() string { return w.propertyID }

// BeginCreate: Unlinked → Creating
func (w *LinkWorkflow) BeginCreate() error {
	if w.state != LinkStateUnlinked {
		return &PreconditionError{Message: "link workflow already started (state " + w.state.String() + ")"}
	}
	w.state = LinkStateCreating
	return nil
}

// MarkCreated: Creating → Created. Принимает только долговечный идентификатор.
func (w *LinkWorkflow) MarkCreated(propertyID string) error {
	if w.state != LinkStateCreating {
		return &PreconditionError{Message: "cannot mark created from state " + w.state.String()}
	}
	if propertyID == "" || IsTemporaryID(propertyID) {
		return &PreconditionError{Message: "create returned a non-durable identifier " + propertyID + "; attach will not be attempted"}
	}
	w.propertyID = propertyID
	w.state = LinkStateCreated
	return nil
}

// BeginLink: Created → Linking
func (w *LinkWorkflow) BeginLink() error {
	if w.state != LinkStateCreated {
		return &PreconditionError{Message: "cannot begin link from state " + w.state.String()}
	}
	w.state = LinkStateLinking
	return nil
}

// CompleteLink: Linking → Linked
func (w *LinkWorkflow) CompleteLink() error {
	if w.state != LinkStateLinking {
		return &PreconditionError{Message: "cannot complete link from state " + w.state.String()}
	}
	w.state = LinkStateLinked
	return nil
}

// FailLink: Linking → LinkFailed. Объект продолжает существовать сам по себе -
// это частичный успех, а не полный провал.
func (w *LinkWorkflow) FailLink() error {
	if w.state != LinkStateLinking {
		return &PreconditionError{Message: "cannot fail link from state " + w.state.String()}
	}
	w.state = LinkStateFailed
	return nil
}

// LinkOutcome - итог workflow для вызывающего кода.
// PropertyID заполнен всегда, когда объект создан, даже если привязка не удалась:
// пользователя обязаны привести к созданной сущности.
type LinkOutcome struct {
	PropertyID string
	ParentID   string
	State      LinkState
}
