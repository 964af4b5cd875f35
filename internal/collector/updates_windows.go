//go:build windows

package collector

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
)

// sFalse is returned by CoInitializeEx when COM is already initialized on the thread.
const sFalse = 0x00000001

// updateAgentSource reads install history from the Windows Update Agent
// (Microsoft.Update.Session).
type updateAgentSource struct{}

func newUpdateAgentSource() *updateAgentSource {
	return &updateAgentSource{}
}

// History enumerates the full update history. The COM calls run on a
// dedicated OS thread; History stops waiting when ctx is done.
func (updateAgentSource) History(ctx context.Context) ([]UpdateEntry, error) {
	type result struct {
		entries []UpdateEntry
		err     error
	}
	ch := make(chan result, 1)

	go func() {
		var r result
		defer func() {
			if p := recover(); p != nil {
				r = result{err: fmt.Errorf("update agent panicked: %v", p)}
			}
			ch <- r
		}()
		r.entries, r.err = queryUpdateHistory()
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("query update history: %w", ctx.Err())
	case r := <-ch:
		return r.entries, r.err
	}
}

func queryUpdateHistory() ([]UpdateEntry, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || (oleErr.Code() != ole.S_OK && oleErr.Code() != sFalse) {
			return nil, fmt.Errorf("initialize COM: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("Microsoft.Update.Session")
	if err != nil {
		return nil, fmt.Errorf("create update session: %w", err)
	}
	defer unknown.Release()

	session, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("query update session: %w", err)
	}
	defer session.Release()

	searcherV, err := oleutil.CallMethod(session, "CreateUpdateSearcher")
	if err != nil {
		return nil, fmt.Errorf("create update searcher: %w", err)
	}
	defer searcherV.Clear()
	searcher := searcherV.ToIDispatch()

	countV, err := oleutil.CallMethod(searcher, "GetTotalHistoryCount")
	if err != nil {
		return nil, fmt.Errorf("history count: %w", err)
	}
	total := int(countV.Val)
	countV.Clear()
	if total == 0 {
		return nil, nil
	}

	historyV, err := oleutil.CallMethod(searcher, "QueryHistory", 0, total)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer historyV.Clear()
	history := historyV.ToIDispatch()

	nV, err := oleutil.GetProperty(history, "Count")
	if err != nil {
		return nil, fmt.Errorf("history length: %w", err)
	}
	n := int(nV.Val)
	nV.Clear()

	entries := make([]UpdateEntry, 0, n)
	for i := 0; i < n; i++ {
		e, err := historyEntry(history, i)
		if err != nil {
			return nil, fmt.Errorf("history entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func historyEntry(history *ole.IDispatch, i int) (UpdateEntry, error) {
	itemV, err := oleutil.GetProperty(history, "Item", i)
	if err != nil {
		return UpdateEntry{}, err
	}
	defer itemV.Clear()
	item := itemV.ToIDispatch()

	titleV, err := oleutil.GetProperty(item, "Title")
	if err != nil {
		return UpdateEntry{}, err
	}
	entry := UpdateEntry{Title: titleV.ToString()}
	titleV.Clear()

	dateV, err := oleutil.GetProperty(item, "Date")
	if err == nil {
		if t, ok := dateV.Value().(time.Time); ok {
			entry.Date = t
		}
		dateV.Clear()
	}
	return entry, nil
}
