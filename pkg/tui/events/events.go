// Package events defines the typed messages the calendar components
// exchange through the Bubble Tea runtime, along with tea.Cmd wrappers for
// emitting them from an Update result.
package events

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/almanac/pkg/civil"
	"tableflip.dev/almanac/pkg/event"
	"tableflip.dev/almanac/pkg/grid"
	"tableflip.dev/almanac/pkg/selection"
)

// ComponentID uniquely identifies a component instance emitting events.
type ComponentID string

// ViewChangeMsg asks the app to switch to another granularity.
type ViewChangeMsg struct {
	Component   ComponentID
	Granularity grid.Granularity
}

// Describe renders the view change in a human-friendly format for logs.
func (m ViewChangeMsg) Describe() string {
	return fmt.Sprintf(`view:%q`, m.Granularity)
}

// ViewChangeCmd wraps ViewChangeMsg in a tea.Cmd.
func ViewChangeCmd(component ComponentID, g grid.Granularity) tea.Cmd {
	return func() tea.Msg {
		return ViewChangeMsg{Component: component, Granularity: g}
	}
}

// NavigateMsg moves the anchor by whole periods (negative = back) or jumps
// straight to a date when Jump is set.
type NavigateMsg struct {
	Component ComponentID
	Periods   int
	Jump      *civil.Date
}

// Describe renders the navigation for logs.
func (m NavigateMsg) Describe() string {
	if m.Jump != nil {
		return fmt.Sprintf(`jump:%q`, m.Jump)
	}
	return fmt.Sprintf(`periods:%d`, m.Periods)
}

// NavigateCmd wraps a relative NavigateMsg in a tea.Cmd.
func NavigateCmd(component ComponentID, periods int) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Component: component, Periods: periods}
	}
}

// JumpCmd wraps an absolute NavigateMsg in a tea.Cmd.
func JumpCmd(component ComponentID, d civil.Date) tea.Cmd {
	return func() tea.Msg {
		return NavigateMsg{Component: component, Jump: &d}
	}
}

// EventsLoadedMsg carries a freshly loaded period snapshot from the event
// sources into the views.
type EventsLoadedMsg struct {
	Component ComponentID
	Period    event.Period
	Events    []event.Event
	Err       error
}

// Describe renders the load result for logs.
func (m EventsLoadedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`period:%q error:%q`, m.Period.Start, m.Err)
	}
	return fmt.Sprintf(`period:%q count:%d`, m.Period.Start, len(m.Events))
}

// SelectionPreviewMsg reports the range an in-flight drag currently
// covers, for live highlighting.
type SelectionPreviewMsg struct {
	Component ComponentID
	Range     selection.Range
}

// Describe renders the preview for logs.
func (m SelectionPreviewMsg) Describe() string {
	return fmt.Sprintf(`start:%q end:%q allday:%t`, m.Range.Start, m.Range.End, m.Range.AllDay)
}

// SelectionCommitMsg fires when a drag is released and its normalized
// range should become a new event.
type SelectionCommitMsg struct {
	Component ComponentID
	Range     selection.Range
}

// Describe renders the commit for logs.
func (m SelectionCommitMsg) Describe() string {
	return fmt.Sprintf(`start:%q end:%q allday:%t`, m.Range.Start, m.Range.End, m.Range.AllDay)
}

// SelectionCommitCmd wraps SelectionCommitMsg in a tea.Cmd.
func SelectionCommitCmd(component ComponentID, r selection.Range) tea.Cmd {
	return func() tea.Msg {
		return SelectionCommitMsg{Component: component, Range: r}
	}
}

// SelectionCancelMsg fires when a drag is abandoned without commit.
type SelectionCancelMsg struct {
	Component ComponentID
}

// Describe renders the cancellation for logs.
func (m SelectionCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// QuickAddSubmitMsg carries the summary typed into the quick-add overlay
// together with the committed range it annotates.
type QuickAddSubmitMsg struct {
	Component ComponentID
	Summary   string
	Range     selection.Range
}

// Describe renders the submission for logs.
func (m QuickAddSubmitMsg) Describe() string {
	return fmt.Sprintf(`summary:%q start:%q`, m.Summary, m.Range.Start)
}

// QuickAddSubmitCmd wraps QuickAddSubmitMsg in a tea.Cmd.
func QuickAddSubmitCmd(component ComponentID, summary string, r selection.Range) tea.Cmd {
	return func() tea.Msg {
		return QuickAddSubmitMsg{Component: component, Summary: summary, Range: r}
	}
}

// QuickAddCancelMsg dismisses the quick-add overlay without creating
// anything.
type QuickAddCancelMsg struct {
	Component ComponentID
}

// Describe renders the cancellation for logs.
func (m QuickAddCancelMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// QuickAddCancelCmd wraps QuickAddCancelMsg in a tea.Cmd.
func QuickAddCancelCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return QuickAddCancelMsg{Component: component}
	}
}

// EventCreatedMsg announces that a new event reached the store.
type EventCreatedMsg struct {
	Component ComponentID
	Event     event.Event
	Err       error
}

// Describe renders the creation for logs.
func (m EventCreatedMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`summary:%q error:%q`, m.Event.Summary, m.Err)
	}
	return fmt.Sprintf(`summary:%q id:%q`, m.Event.Summary, m.Event.ID)
}

// RefreshRequestMsg asks the app to re-fetch remote subscriptions. The
// cron scheduler and the manual key binding both emit it.
type RefreshRequestMsg struct {
	Component ComponentID
}

// Describe renders the request for logs.
func (m RefreshRequestMsg) Describe() string {
	return fmt.Sprintf(`component:%q`, m.Component)
}

// RefreshCmd wraps RefreshRequestMsg in a tea.Cmd.
func RefreshCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return RefreshRequestMsg{Component: component}
	}
}

// RefreshDoneMsg reports the outcome of a subscription refresh.
type RefreshDoneMsg struct {
	Component ComponentID
	Err       error
}

// Describe renders the outcome for logs.
func (m RefreshDoneMsg) Describe() string {
	if m.Err != nil {
		return fmt.Sprintf(`error:%q`, m.Err)
	}
	return `ok`
}

// StoreChangedMsg mirrors a store.Notification into the program: the local
// store changed outside this process and views should reload.
type StoreChangedMsg struct {
	Calendar string
}

// Describe renders the change for logs.
func (m StoreChangedMsg) Describe() string {
	return fmt.Sprintf(`calendar:%q`, m.Calendar)
}

// TickMsg carries the periodic wall-clock tick that moves the today
// highlight and the now indicator.
type TickMsg struct {
	Now time.Time
}

// Describe renders the tick for logs.
func (m TickMsg) Describe() string {
	return m.Now.Format(time.RFC3339)
}

// Tick schedules the next minute tick.
func Tick() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return TickMsg{Now: t}
	})
}

// FocusMsg indicates a component just gained focus.
type FocusMsg struct {
	Component ComponentID
}

// Describe implements the logging helper.
func (m FocusMsg) Describe() string {
	return fmt.Sprintf(`component:%q state:"focus"`, m.Component)
}

// FocusCmd wraps a FocusMsg in a tea.Cmd helper.
func FocusCmd(component ComponentID) tea.Cmd {
	return func() tea.Msg {
		return FocusMsg{Component: component}
	}
}

// DebugMsg captures optional diagnostic notes emitted by components.
type DebugMsg struct {
	Component ComponentID
	Context   string
	Detail    string
}

// Describe renders the debug message in a human-readable format.
func (m DebugMsg) Describe() string {
	return fmt.Sprintf(`component:%q context:%q detail:%q`, m.Component, m.Context, m.Detail)
}

// DebugCmd wraps DebugMsg creation in a tea.Cmd helper.
func DebugCmd(component ComponentID, context, detail string) tea.Cmd {
	return func() tea.Msg {
		return DebugMsg{Component: component, Context: context, Detail: detail}
	}
}
