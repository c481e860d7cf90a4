package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/BrrBrr1/UniboOrario/internal/course"
	"github.com/BrrBrr1/UniboOrario/internal/debuglog"
	"github.com/BrrBrr1/UniboOrario/internal/export"
	"github.com/BrrBrr1/UniboOrario/internal/search"
	"github.com/BrrBrr1/UniboOrario/internal/timetable"
)

var (
	dayHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ECDC4"))
	timeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1D3"))
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA86B"))
)

// weekFlags are shared by every command that resolves a week of events.
type weekFlags struct {
	courseID string
	year     int
	date     string
	today    bool
	next     bool
	prev     bool
	filter   string
	field    string
}

func (f *weekFlags) register(cmd *cobra.Command, withFilter bool) {
	cmd.Flags().StringVarP(&f.courseID, "course", "c", "", "course id (default from config)")
	cmd.Flags().IntVarP(&f.year, "year", "y", 0, "course year (default from config)")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "any date inside the wanted week (yyyy-mm-dd)")
	cmd.Flags().BoolVar(&f.today, "today", false, "jump back to the current week")
	cmd.Flags().BoolVar(&f.next, "next", false, "move one week forward")
	cmd.Flags().BoolVar(&f.prev, "prev", false, "move one week back")
	if withFilter {
		cmd.Flags().StringVarP(&f.filter, "filter", "f", "", "free-text filter")
		cmd.Flags().StringVar(&f.field, "field", "title", "filter field: title, teacher or location")
	}
}

func (f *weekFlags) query() (timetable.Query, error) {
	field := timetable.FilterField(f.field)
	switch field {
	case timetable.FieldTitle, timetable.FieldTeacher, timetable.FieldLocation:
	default:
		return timetable.Query{}, fmt.Errorf("unknown filter field %q", f.field)
	}
	return timetable.Query{Text: f.filter, Field: field}, nil
}

// loadWeek opens the app, points the session at the requested tuple and
// fetches that week.
func loadWeek(f *weekFlags) (*app, error) {
	a, err := openApp()
	if err != nil {
		return nil, err
	}

	courseID := f.courseID
	if courseID == "" {
		courseID = a.cfg.Courses.DefaultCourse
	}
	if err := a.controller.SetCourse(courseID); err != nil {
		a.close()
		return nil, err
	}

	year := f.year
	if year == 0 {
		year = a.cfg.Courses.DefaultYear
	}
	if err := a.controller.SetYear(year); err != nil {
		a.close()
		return nil, err
	}

	// Keep an existing search index current; don't build one as a side
	// effect of browsing.
	if _, statErr := os.Stat(a.cfg.Database.SearchIndex); statErr == nil {
		if idx, idxErr := search.NewBleveEngine(a.store, a.cfg.Database.SearchIndex); idxErr == nil {
			a.searchIdx = idx
			a.controller.SetIndexer(idx)
		} else {
			debuglog.Warnf("opening search index: %v", idxErr)
		}
	}

	if f.today {
		a.controller.ResetDate()
	}
	if f.date != "" {
		t, err := time.ParseInLocation("2006-01-02", f.date, time.Local)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("invalid date %q: %w", f.date, err)
		}
		a.controller.SetDate(t)
	}
	if f.next {
		a.controller.NextWeek()
	}
	if f.prev {
		a.controller.PrevWeek()
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timetable.HTTPTimeout+5*time.Second)
	defer cancel()

	if err := a.controller.Refresh(ctx); err != nil {
		var failed *timetable.FetchFailedError
		if errors.As(err, &failed) {
			a.close()
			return nil, fmt.Errorf("could not load the timetable and no offline data is available; retry when online (%w)", failed.Err)
		}
		a.close()
		return nil, err
	}

	return a, nil
}

func printCacheNotice(a *app) {
	if a.controller.FromCache() {
		fmt.Println(noticeStyle.Render(fmt.Sprintf(
			"offline: showing saved data from %s",
			a.controller.LastUpdated().Format("2006-01-02 15:04"))))
	}
}

func newWeekCmd() *cobra.Command {
	var f weekFlags
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the timetable for a week",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadWeek(&f)
			if err != nil {
				return err
			}
			defer a.close()

			q, err := f.query()
			if err != nil {
				return err
			}

			banner()
			crs := a.controller.Course()
			start, _ := timetable.WeekRange(a.controller.Date())
			fmt.Printf("%s — anno %d, settimana del %s\n",
				crs.Name, a.controller.Year(), start.Format("2006-01-02"))
			printCacheNotice(a)

			visible := a.controller.Visible(q)
			if len(visible) == 0 {
				fmt.Println(mutedStyle.Render("no lessons this week"))
				return nil
			}

			for _, day := range timetable.WeekDays(a.controller.Date()) {
				var todays []timetable.Event
				for _, ev := range visible {
					if timetable.SameDay(ev.Start.Time, day) {
						todays = append(todays, ev)
					}
				}
				if len(todays) == 0 {
					continue
				}

				fmt.Println()
				fmt.Println(dayHeaderStyle.Render(day.Format("Monday 2006-01-02")))
				for _, ev := range todays {
					line := fmt.Sprintf("  %s  %s", timeStyle.Render(ev.Time), ev.Title)
					if ev.Docente != "" {
						line += mutedStyle.Render(" · " + ev.Docente)
					}
					if room := ev.Room(); room != "" {
						line += mutedStyle.Render(" (" + room + ")")
					}
					fmt.Println(line)
				}
			}
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newLessonsCmd() *cobra.Command {
	var f weekFlags
	cmd := &cobra.Command{
		Use:   "lessons",
		Short: "List the week's lessons and which are selected",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadWeek(&f)
			if err != nil {
				return err
			}
			defer a.close()

			printCacheNotice(a)

			selected := make(map[string]struct{})
			for _, id := range a.controller.Selection() {
				selected[id] = struct{}{}
			}

			for _, l := range a.controller.Lessons() {
				mark := "[ ]"
				if _, ok := selected[l.CodModulo]; ok {
					mark = "[x]"
				}
				note := ""
				if _, ok := a.notes.Get(l.CodModulo); ok {
					note = mutedStyle.Render(" *")
				}
				fmt.Printf("%s %s  %s%s\n", mark, l.CodModulo, l.Title, note)
			}
			return nil
		},
	}
	f.register(cmd, false)
	return cmd
}

func newSelectCmd() *cobra.Command {
	var f weekFlags
	var all, none bool
	cmd := &cobra.Command{
		Use:   "select [cod_modulo...]",
		Short: "Toggle which lessons are shown for the active course/year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && !none && len(args) == 0 {
				return fmt.Errorf("pass lesson codes to toggle, or --all/--none")
			}

			a, err := loadWeek(&f)
			if err != nil {
				return err
			}
			defer a.close()

			switch {
			case all:
				err = a.controller.SelectAll()
			case none:
				err = a.controller.SelectNone()
			default:
				for _, cod := range args {
					if err = a.controller.Toggle(cod); err != nil {
						break
					}
				}
			}
			if err != nil {
				return err
			}

			fmt.Printf("selection for %s: %s\n",
				a.controller.ActiveKey(), strings.Join(a.controller.Selection(), ", "))
			return nil
		},
	}
	f.register(cmd, false)
	cmd.Flags().BoolVar(&all, "all", false, "select every lesson")
	cmd.Flags().BoolVar(&none, "none", false, "clear the selection")
	return cmd
}

func newCoursesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "courses",
		Short: "Manage the course list",
	}

	var showAll bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			var courses []course.Course
			if showAll {
				courses, err = a.registry.All()
			} else {
				courses, err = a.registry.Visible()
			}
			if err != nil {
				return err
			}

			hidden := make(map[string]struct{})
			for _, id := range a.store.HiddenCourses() {
				hidden[id] = struct{}{}
			}

			for _, c := range courses {
				suffix := mutedStyle.Render(" (" + c.Type + ")")
				if _, ok := hidden[c.ID]; ok {
					suffix += noticeStyle.Render(" hidden")
				}
				fmt.Printf("%-40s %s%s\n", c.ID, c.Name, suffix)
			}
			return nil
		},
	}
	listCmd.Flags().BoolVarP(&showAll, "all", "a", false, "include hidden courses")

	var addName, addURL, addCurricula string
	var addYears int
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom course from a timetable URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Timetable.HTTPTimeout+5*time.Second)
			defer cancel()

			added, err := a.registry.Add(ctx, course.Course{
				Name:      addName,
				URL:       addURL,
				Curricula: addCurricula,
				Years:     addYears,
			})
			if err != nil {
				var verr *course.ValidationError
				if errors.As(err, &verr) {
					return fmt.Errorf("the URL did not return a valid timetable; nothing was added (%w)", verr.Err)
				}
				return err
			}

			fmt.Printf("added course %s\n", added.ID)
			return nil
		},
	}
	addCmd.Flags().StringVar(&addName, "name", "", "course name")
	addCmd.Flags().StringVar(&addURL, "url", "", "timetable JSON URL")
	addCmd.Flags().StringVar(&addCurricula, "curricula", "", "curricula code, if required")
	addCmd.Flags().IntVar(&addYears, "years", 0, "number of course years")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("url")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom course and its saved selections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.registry.Remove(args[0])
		},
	}

	hideCmd := &cobra.Command{
		Use:   "hide <id>",
		Short: "Toggle a course's visibility in the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.registry.ToggleHidden(args[0])
		},
	}

	orderCmd := &cobra.Command{
		Use:   "order <id>...",
		Short: "Pin courses to the top of the list, in the given order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.registry.SetOrder(args)
		},
	}

	cmd.AddCommand(listCmd, addCmd, removeCmd, hideCmd, orderCmd)
	return cmd
}

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Per-lesson notes",
	}

	showCmd := &cobra.Command{
		Use:   "show <cod_modulo>",
		Short: "Render the note for a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			out, err := a.notes.Render(args[0], 80)
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <cod_modulo> <text>",
		Short: "Save a note for a lesson (markdown supported)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.notes.Set(args[0], strings.Join(args[1:], " "))
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <cod_modulo>",
		Short: "Delete the note for a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.notes.Delete(args[0])
		},
	}

	cmd.AddCommand(showCmd, setCmd, rmCmd)
	return cmd
}

func newSearchCmd() *cobra.Command {
	var simple bool
	var limit int
	cmd := &cobra.Command{
		Use:   "search <terms...>",
		Short: "Search lessons across all cached weeks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.close()

			var engine search.Searcher
			if simple {
				engine = search.NewEngine(a.store)
			} else {
				bleveEngine, err := search.NewBleveEngine(a.store, a.cfg.Database.SearchIndex)
				if err != nil {
					debuglog.Warnf("opening search index, falling back to scan: %v", err)
					engine = search.NewEngine(a.store)
				} else {
					defer bleveEngine.Close()
					engine = bleveEngine
				}
			}

			results, err := engine.Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println(mutedStyle.Render("no matches in cached data"))
				return nil
			}

			for _, r := range results {
				line := fmt.Sprintf("%s  %s", r.CodModulo, r.Title)
				if r.Docente != "" {
					line += mutedStyle.Render(" · " + r.Docente)
				}
				if r.Week != "" {
					line += mutedStyle.Render(" @ " + r.Week)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&simple, "simple", false, "scan without the search index")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum results")
	return cmd
}

func newExportCmd() *cobra.Command {
	var f weekFlags
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the visible week as an iCalendar file",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadWeek(&f)
			if err != nil {
				return err
			}
			defer a.close()

			q, err := f.query()
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" {
				file, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating %s: %w", out, err)
				}
				defer file.Close()
				w = file
			}

			name := fmt.Sprintf("%s (anno %d)", a.controller.Course().Name, a.controller.Year())
			if err := export.WriteICS(w, a.controller.Visible(q), name); err != nil {
				return fmt.Errorf("writing calendar: %w", err)
			}
			if out != "" {
				fmt.Printf("wrote %s\n", out)
			}
			return nil
		},
	}
	f.register(cmd, true)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
