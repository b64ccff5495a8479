package views

import (
	"fyne.io/fyne/v2"

	"rts-lobby/internal/logger"
	"rts-lobby/internal/models"
)

// Screen is one entry of the navigation stack.
type Screen interface {
	Content() fyne.CanvasObject
}

// ScreenStack swaps window content as screens are pushed and popped. It is
// the lobby's navigator.
type ScreenStack struct {
	window  fyne.Window
	screens []Screen
	log     logger.Logger

	stagingFactory func(models.StagingRoom) Screen
	resumeHandler  func(depth int)
	emptyHandler   func()
}

func NewScreenStack(window fyne.Window, log logger.Logger) *ScreenStack {
	if log == nil {
		log = logger.NewNop()
	}
	return &ScreenStack{window: window, log: log}
}

// SetStagingFactory sets how EnterStaging builds the staging screen
func (s *ScreenStack) SetStagingFactory(factory func(models.StagingRoom) Screen) {
	s.stagingFactory = factory
}

// SetResumeHandler is called with the new depth whenever a pop reveals a
// screen again.
func (s *ScreenStack) SetResumeHandler(handler func(depth int)) {
	s.resumeHandler = handler
}

// SetEmptyHandler is called when the last screen is popped
func (s *ScreenStack) SetEmptyHandler(handler func()) {
	s.emptyHandler = handler
}

func (s *ScreenStack) Push(screen Screen) {
	s.screens = append(s.screens, screen)
	s.window.SetContent(screen.Content())
	s.log.Debug("ScreenStack", "screen pushed", map[string]interface{}{"depth": len(s.screens)})
}

func (s *ScreenStack) EnterStaging(room models.StagingRoom) {
	if s.stagingFactory == nil {
		s.log.Warning("ScreenStack", "no staging screen configured", map[string]interface{}{"game_id": room.ID})
		return
	}
	s.Push(s.stagingFactory(room))
}

func (s *ScreenStack) Pop() {
	if len(s.screens) == 0 {
		return
	}
	s.screens[len(s.screens)-1] = nil
	s.screens = s.screens[:len(s.screens)-1]
	s.log.Debug("ScreenStack", "screen popped", map[string]interface{}{"depth": len(s.screens)})

	if len(s.screens) == 0 {
		if s.emptyHandler != nil {
			s.emptyHandler()
		}
		return
	}

	s.window.SetContent(s.Top().Content())
	if s.resumeHandler != nil {
		s.resumeHandler(len(s.screens))
	}
}

// Top returns the visible screen, or nil when the stack is empty
func (s *ScreenStack) Top() Screen {
	if len(s.screens) == 0 {
		return nil
	}
	return s.screens[len(s.screens)-1]
}

func (s *ScreenStack) Depth() int {
	return len(s.screens)
}
