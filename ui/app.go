// Package ui provides the Fyne-based GUI for the RosterDesk client.
package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/hwaller/rosterdesk/pkg/client"
	"github.com/hwaller/rosterdesk/pkg/model"
	"github.com/hwaller/rosterdesk/pkg/version"
)

// App is the main GUI application.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	engine  *client.Engine

	// UI components
	statusLabel *widget.Label
	loginBtn    *widget.Button
	logoutBtn   *widget.Button

	messageLabel *widget.Label
	messageBar   *fyne.Container

	activitiesBox    *fyne.Container
	activitiesScroll *container.Scroll

	activitySelect *widget.Select
	emailEntry     *widget.Entry
	signupBtn      *widget.Button
	signupForm     *fyne.Container
	signupLocked   *widget.Label

	// Login dialog entries persist across failed attempts
	loginUser *widget.Entry
	loginPass *widget.Entry

	// State, updated only on the Fyne thread
	roster  *model.Roster
	session client.Session
}

// NewApp creates a new RosterDesk GUI application around an engine.
// The caller keeps ownership of the engine; Run starts it.
func NewApp(engine *client.Engine) *App {
	a := &App{
		fyneApp: app.NewWithID("io.rosterdesk.client"),
		engine:  engine,
	}
	a.window = a.fyneApp.NewWindow("RosterDesk")
	a.window.Resize(fyne.NewSize(700, 600))
	a.window.SetMaster()
	return a
}

// Run starts the GUI application (blocks).
func (a *App) Run() {
	a.buildUI()
	a.bindEvents()
	a.window.SetCloseIntercept(func() {
		a.engine.Close()
		a.fyneApp.Quit()
	})
	go a.engine.Start()
	a.window.ShowAndRun()
}

func (a *App) buildUI() {
	// --- Toolbar ---
	a.statusLabel = widget.NewLabel("Browsing as student")
	a.statusLabel.TextStyle = fyne.TextStyle{Italic: true}

	a.loginBtn = widget.NewButtonWithIcon("Teacher Login", theme.LoginIcon(), a.showLoginDialog)
	a.logoutBtn = widget.NewButtonWithIcon("Logout", theme.LogoutIcon(), func() {
		go a.engine.Logout()
	})
	a.logoutBtn.Hide()

	refreshBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		go a.engine.FetchRoster() //nolint:errcheck // surfaced via callbacks
	})

	versionLabel := widget.NewLabel(version.String())
	versionLabel.TextStyle = fyne.TextStyle{Italic: true}
	versionLabel.Importance = widget.LowImportance

	toolbar := container.NewHBox(
		a.statusLabel,
		layout.NewSpacer(),
		refreshBtn,
		a.loginBtn,
		a.logoutBtn,
	)

	// --- Message bar (auto-dismissed by the engine) ---
	a.messageLabel = widget.NewLabel("")
	a.messageLabel.Wrapping = fyne.TextWrapWord
	a.messageBar = container.NewVBox(a.messageLabel)
	a.messageBar.Hide()

	// --- Activities list ---
	a.activitiesBox = container.NewVBox()
	a.activitiesScroll = container.NewVScroll(a.activitiesBox)

	// --- Signup form ---
	a.activitySelect = widget.NewSelect(nil, nil)
	a.activitySelect.PlaceHolder = "Select an activity"
	a.emailEntry = widget.NewEntry()
	a.emailEntry.SetPlaceHolder("student@mergington.edu")
	a.signupBtn = widget.NewButtonWithIcon("Sign Up", theme.ConfirmIcon(), a.submitSignup)

	a.signupForm = container.NewVBox(
		widget.NewLabelWithStyle("Sign Up a Student", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.activitySelect,
		a.emailEntry,
		a.signupBtn,
	)
	a.signupLocked = widget.NewLabel("Teacher login required to sign up students")
	a.signupLocked.TextStyle = fyne.TextStyle{Italic: true}
	a.signupForm.Hide()

	bottom := container.NewVBox(
		widget.NewSeparator(),
		a.signupForm,
		a.signupLocked,
		container.NewHBox(layout.NewSpacer(), versionLabel),
	)

	content := container.NewBorder(
		container.NewVBox(toolbar, a.messageBar, widget.NewSeparator()),
		bottom,
		nil, nil,
		a.activitiesScroll,
	)

	a.window.SetContent(content)
}

func (a *App) bindEvents() {
	a.engine.OnSessionChange = func(s client.Session) {
		fyne.Do(func() {
			a.session = s
			if s.Authenticated {
				a.statusLabel.SetText(fmt.Sprintf("Logged in as %s", s.Identity))
				a.loginBtn.Hide()
				a.logoutBtn.Show()
				a.signupForm.Show()
				a.signupLocked.Hide()
			} else {
				a.statusLabel.SetText("Browsing as student")
				a.loginBtn.Show()
				a.logoutBtn.Hide()
				a.signupForm.Hide()
				a.signupLocked.Show()
			}
			// Participant remove buttons depend on auth state
			a.renderActivities()
		})
	}

	a.engine.OnRoster = func(r *model.Roster) {
		fyne.Do(func() {
			a.roster = r
			a.activitySelect.Options = r.Names()
			a.activitySelect.Refresh()
			a.renderActivities()
		})
	}

	a.engine.OnRosterUnavailable = func() {
		fyne.Do(func() {
			a.activitiesBox.Objects = nil
			a.activitiesBox.Add(widget.NewLabel("Failed to load activities. Please try again later."))
			a.activitiesBox.Refresh()
		})
	}

	a.engine.OnNotice = func(n client.Notice) {
		fyne.Do(func() {
			a.messageLabel.SetText(n.Text)
			if n.Kind == client.NoticeError {
				a.messageLabel.Importance = widget.DangerImportance
			} else {
				a.messageLabel.Importance = widget.SuccessImportance
			}
			a.messageLabel.Refresh()
			a.messageBar.Show()
		})
	}

	a.engine.OnNoticeDismiss = func() {
		fyne.Do(func() {
			a.messageBar.Hide()
		})
	}

	a.engine.OnSignupAccepted = func() {
		fyne.Do(func() {
			a.emailEntry.SetText("")
			a.activitySelect.ClearSelected()
		})
	}
}

// renderActivities rebuilds the activity cards from current roster and
// session state. Must run on the Fyne thread.
func (a *App) renderActivities() {
	a.activitiesBox.Objects = nil
	if a.roster == nil {
		a.activitiesBox.Refresh()
		return
	}
	a.roster.Each(func(name string, act model.Activity) {
		a.activitiesBox.Add(a.activityCard(name, act))
	})
	a.activitiesBox.Refresh()
}

func (a *App) activityCard(name string, act model.Activity) fyne.CanvasObject {
	details := container.NewVBox(
		widget.NewLabel(act.Description),
		widget.NewLabel(fmt.Sprintf("Schedule: %s", act.Schedule)),
		widget.NewLabel(fmt.Sprintf("Availability: %d spots left", act.SpotsLeft())),
	)

	if len(act.Participants) == 0 {
		empty := widget.NewLabel("No participants yet")
		empty.TextStyle = fyne.TextStyle{Italic: true}
		details.Add(empty)
	} else {
		details.Add(widget.NewLabelWithStyle("Participants:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
		for _, email := range act.Participants {
			details.Add(a.participantRow(name, email))
		}
	}

	return widget.NewCard(name, "", details)
}

func (a *App) participantRow(activity, email string) fyne.CanvasObject {
	row := container.NewHBox(widget.NewLabel(email), layout.NewSpacer())
	if a.session.Authenticated {
		removeBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
			go a.engine.Unregister(activity, email) //nolint:errcheck // surfaced via notices
		})
		removeBtn.Importance = widget.LowImportance
		row.Add(removeBtn)
	}
	return row
}

func (a *App) submitSignup() {
	activity := a.activitySelect.Selected
	email := strings.TrimSpace(a.emailEntry.Text)
	if activity == "" || email == "" {
		return
	}
	go a.engine.SignUp(activity, email) //nolint:errcheck // surfaced via notices
}

func (a *App) showLoginDialog() {
	if a.loginUser == nil {
		a.loginUser = widget.NewEntry()
		a.loginUser.SetPlaceHolder("Username")
		a.loginPass = widget.NewPasswordEntry()
		a.loginPass.SetPlaceHolder("Password")
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Username", a.loginUser),
		widget.NewFormItem("Password", a.loginPass),
	}
	d := dialog.NewForm("Teacher Login", "Login", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		username := strings.TrimSpace(a.loginUser.Text)
		password := a.loginPass.Text
		go func() {
			if err := a.engine.Login(username, password); err != nil {
				// Entries keep their text so the user can retry
				return
			}
			fyne.Do(func() {
				a.loginUser.SetText("")
				a.loginPass.SetText("")
			})
		}()
	}, a.window)
	d.Resize(fyne.NewSize(360, 180))
	d.Show()
}
