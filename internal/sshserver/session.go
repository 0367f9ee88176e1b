// SPDX-License-Identifier: MPL-2.0

package sshserver

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"

	"github.com/scriptdeck/scriptdeck/internal/catalog"
	"github.com/scriptdeck/scriptdeck/internal/selection"
	"github.com/scriptdeck/scriptdeck/internal/tui"
)

type catalogKey struct{}

// catalogMiddleware snapshots the catalog for the session and rejects the
// connection when none is available.
func (s *Server) catalogMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			cat := s.cfg.Catalog()
			if cat == nil {
				wish.Fatalln(sess, fmt.Sprintf("scriptdeck: %v", ErrNoCatalog))
				return
			}
			sess.Context().SetValue(catalogKey{}, cat)

			n := s.sessions.Add(1)
			s.logger.Debug("session opened", "user", sess.User(), "active", n)
			defer func() {
				n := s.sessions.Add(-1)
				s.logger.Debug("session closed", "user", sess.User(), "active", n)
			}()

			next(sess)
		}
	}
}

// teaHandler builds a fresh selector for every session.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	cat, _ := sess.Context().Value(catalogKey{}).(*catalog.Catalog)
	pty, _, _ := sess.Pty()

	m := tui.NewSelector(tui.SelectorOptions{
		Catalog:    cat,
		Session:    selection.NewSession(),
		ShowResult: true,
		Config: tui.Config{
			Theme: s.cfg.Theme,
			Width: pty.Window.Width,
		},
	})
	m.SetSize(pty.Window.Width, pty.Window.Height)

	return m, nil
}
