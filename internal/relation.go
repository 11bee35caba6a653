package internal

import (
	"github.com/google/uuid"

	"github.com/schemahub/console"
)

// RelationTracker accumulates the relation edits a user makes while a record
// form is open, and projects them into the delta the save payload needs. One
// tracker serves one relation field of one record; its session id ties UI
// events back to the right tracker instance.
type RelationTracker struct {
	id        string
	field     *console.Field
	multiple  bool
	contentID uint64

	added   *refSet
	removed *refSet
}

// NewRelationTracker creates a tracker for the given relation field, seeded
// from the record being edited. For single-cardinality relations the current
// linked record, when present in the content, becomes the initial selection.
func NewRelationTracker(field *console.Field, content console.Content) *RelationTracker {
	t := &RelationTracker{
		id:       uuid.NewString(),
		field:    field,
		multiple: fieldIsMultiple(field),
		added:    newRefSet(),
		removed:  newRefSet(),
	}
	t.seed(content)
	return t
}

func (t *RelationTracker) seed(content console.Content) {
	t.contentID = content.ID()
	t.added.Clear()
	t.removed.Clear()

	if t.multiple || t.contentID == 0 {
		return
	}
	if current, ok := content[t.field.Name].(map[string]any); ok {
		t.added.Add(console.Content(current))
	} else if current, ok := content[t.field.Name].(console.Content); ok {
		t.added.Add(current)
	}
}

// ID returns the tracker's session id.
func (t *RelationTracker) ID() string {
	return t.id
}

// Field returns the tracked relation field.
func (t *RelationTracker) Field() *console.Field {
	return t.field
}

// IsMultiple reports whether the tracked relation holds many records.
func (t *RelationTracker) IsMultiple() bool {
	return t.multiple
}

// Reset re-seeds the tracker when the form switches to a different record.
// Resetting to the same record is a no-op, so in-flight edits survive
// re-renders of the same form.
func (t *RelationTracker) Reset(content console.Content) {
	if content.ID() == t.contentID {
		return
	}
	t.seed(content)
}

// Select links a record. Single relations replace the current selection;
// multiple relations append, ignoring duplicates. Selecting a record that was
// unselected earlier in the session restores it instead of re-adding it.
func (t *RelationTracker) Select(item console.Content) bool {
	id := item.ID()
	if id == 0 {
		return false
	}

	if !t.multiple {
		t.added.ReplaceWith(item)
		t.removed.Clear()
		return true
	}

	if t.removed.Contains(id) {
		return t.removed.Remove(id)
	}
	return t.added.Add(item)
}

// Unselect unlinks a record. Newly selected records are simply dropped; for
// an existing record the removal is remembered so the save payload clears it.
func (t *RelationTracker) Unselect(item console.Content) bool {
	id := item.ID()
	if id == 0 {
		return false
	}

	if !t.multiple {
		changed := t.added.Len() > 0
		t.added.Clear()
		if t.contentID != 0 {
			t.removed.Add(item)
		}
		return changed
	}

	if t.added.Contains(id) {
		return t.added.Remove(id)
	}
	if t.contentID != 0 {
		return t.removed.Add(item)
	}
	return false
}

// Selected returns the currently selected records in selection order.
func (t *RelationTracker) Selected() []console.Content {
	return t.added.Items()
}

// IsSelected reports whether the record is currently selected.
func (t *RelationTracker) IsSelected(id uint64) bool {
	return t.added.Contains(id)
}

// Delta projects the accumulated edits into the save-payload value for the
// field. The second return reports presence: false means the field is omitted
// from the payload.
//
// Single relations yield the selected reference; with nothing selected the
// field's optionality decides between an explicit nil and omission, whether
// the link was actively removed or never set. Multiple relations yield an
// add/clear patch on edit (the untouched sentinel when nothing changed) and a
// full replacement list on create.
func (t *RelationTracker) Delta() (any, bool) {
	if !t.multiple {
		if first := t.added.First(); first != nil {
			ref, _ := console.RefOf(first)
			return ref, true
		}
		if t.field.Relation != nil && t.field.Relation.Optional {
			return nil, true
		}
		return nil, false
	}

	if t.contentID == 0 {
		return &console.RelationValue{
			Kind:  console.RelationEditReplace,
			Items: t.added.Refs(),
		}, true
	}

	if t.added.Len() == 0 && t.removed.Len() == 0 {
		return console.Unchanged(), true
	}
	return &console.RelationValue{
		Kind:  console.RelationEditPatch,
		Add:   t.added.Refs(),
		Clear: t.removed.Refs(),
	}, true
}
