package merge

import "github.com/dastanaron/bookmarks-sync/internal/syncids"

// valueStateFor decides whose value record guid carries in the merge.
// Carries over the local faviconID regardless of which side's content
// wins, since the server never stores favicons.
func (m *merger) valueStateFor(guid syncids.GUID) (ValueState, error) {
	lv, lHas, err := m.fetchLocal(guid)
	if err != nil {
		return ValueState{}, err
	}
	mv, mHas, err := m.fetchMirror(guid)
	if err != nil {
		return ValueState{}, err
	}
	rv, rHas, err := m.fetchRemote(guid)
	if err != nil {
		return ValueState{}, err
	}

	var state ValueState
	switch {
	case !mHas && lHas && rHas:
		if lv.SameAs(rv) {
			state = newValueState(ValueNew, cloneRecord(rv), "both sides added identical content")
		} else {
			m.logConflict("guid %s added with differing content on both sides; remote wins", guid)
			state = newValueState(ValueNew, cloneRecord(rv), "content conflict on new node; remote wins")
		}
	case !mHas && lHas:
		state = newValueState(ValueNew, cloneRecord(lv), "local-only addition")
	case !mHas && rHas:
		state = newValueState(ValueRemote, cloneRecord(rv), "remote-only addition")
	case !mHas:
		state = newValueState(ValueUnchanged, nil, "")
	default:
		changedLocal := lHas && !lv.SameAs(mv)
		changedRemote := rHas && !rv.SameAs(mv)
		switch {
		case !changedLocal && !changedRemote:
			state = newValueState(ValueUnchanged, nil, "")
		case changedLocal && !changedRemote:
			state = newValueState(ValueLocal, cloneRecord(lv), "local-only change")
		case !changedLocal && changedRemote:
			state = newValueState(ValueRemote, cloneRecord(rv), "remote-only change")
		default:
			if lv.SameAs(rv) {
				state = newValueState(ValueRemote, cloneRecord(rv), "no-op conflict: both sides made the same change")
			} else {
				m.logConflict("guid %s changed on both sides with different content; remote wins", guid)
				state = newValueState(ValueRemote, cloneRecord(rv), "content conflict; remote wins")
			}
		}
	}

	if state.Item != nil && state.Item.FaviconID == nil && lHas && lv.FaviconID != nil {
		fav := *lv.FaviconID
		state.Item.FaviconID = &fav
	}
	return state, nil
}

func cloneRecord(r syncids.Record) *syncids.Record {
	clone := r
	return &clone
}
