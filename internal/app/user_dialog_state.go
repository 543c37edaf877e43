package app

import "sync"

type userSession struct {
	dialog     Dialog
	controller *Controller
}

// UserDialogState keeps the current dialog and the download controller of every user.
type UserDialogState struct {
	mu            *sync.Mutex
	sessionByUser map[int64]*userSession
}

func NewUserDialogState() *UserDialogState {
	return &UserDialogState{
		sessionByUser: make(map[int64]*userSession),
		mu:            new(sync.Mutex),
	}
}

func (uds *UserDialogState) session(userID int64) *userSession {
	s, ok := uds.sessionByUser[userID]
	if !ok {
		s = new(userSession)
		uds.sessionByUser[userID] = s
	}
	return s
}

func (uds *UserDialogState) FindDialogByUser(userID int64) Dialog {
	uds.mu.Lock()
	defer uds.mu.Unlock()

	s, ok := uds.sessionByUser[userID]
	if !ok {
		return nil
	}
	return s.dialog
}

func (uds *UserDialogState) SetDialogForUser(userID int64, dialog Dialog) {
	uds.mu.Lock()
	defer uds.mu.Unlock()

	uds.session(userID).dialog = dialog
}

// ControllerForUser returns the user's controller, creating it with newController
// on first use. The controller outlives dialog switches.
func (uds *UserDialogState) ControllerForUser(userID int64, newController func() *Controller) *Controller {
	uds.mu.Lock()
	defer uds.mu.Unlock()

	s := uds.session(userID)
	if s.controller == nil {
		s.controller = newController()
	}
	return s.controller
}

// Controllers returns every controller created so far.
func (uds *UserDialogState) Controllers() []*Controller {
	uds.mu.Lock()
	defer uds.mu.Unlock()

	res := make([]*Controller, 0, len(uds.sessionByUser))
	for _, s := range uds.sessionByUser {
		if s.controller != nil {
			res = append(res, s.controller)
		}
	}
	return res
}
