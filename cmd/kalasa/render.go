package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"kalasa.app/kalasa/internal/core"
	"kalasa.app/kalasa/internal/store"
	"kalasa.app/kalasa/internal/utils"
)

var (
	accent      = lipgloss.Color("#E4572E")
	muted       = lipgloss.Color("#8A8F98")
	successTone = lipgloss.Color("#4CAF50")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(successTone)
	tagStyle     = lipgloss.NewStyle().Foreground(accent).Italic(true)
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(muted).
			Padding(0, 1).
			Width(72)
)

const (
	descriptionWidth = 200
	urlWidth         = 60
)

func printCard(w io.Writer, lines ...string) {
	fmt.Fprintln(w, cardStyle.Render(strings.Join(lines, "\n")))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(format, args...)))
}

func timeLabel(t time.Time) string {
	return t.Local().Format("02 Jan 2006 15:04")
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func renderPost(w io.Writer, p store.FoodPost) {
	lines := []string{
		titleStyle.Render(p.Title) + "  " + mutedStyle.Render(p.ID),
		mutedStyle.Render(fmt.Sprintf("by %s · %s · %s", p.UserID, timeLabel(p.CreatedAt), p.MediaType)),
	}
	if p.Description != "" {
		lines = append(lines, utils.Truncate(p.Description, descriptionWidth))
	}
	if len(p.Ingredients) > 0 {
		lines = append(lines, "Ingredients: "+strings.Join(p.Ingredients, ", "))
	}
	if len(p.Tags) > 0 {
		lines = append(lines, tagStyle.Render("#"+strings.Join(p.Tags, " #")))
	}
	lines = append(lines,
		mutedStyle.Render(utils.Truncate(p.ImageURL, urlWidth)),
		fmt.Sprintf("♥ %s  ★ %s", countLabel(len(p.Likes), "like"), countLabel(len(p.Saves), "save")),
	)
	printCard(w, lines...)
}

func renderPostDetail(w io.Writer, d *core.PostDetail) {
	renderPost(w, d.Post)
	if d.Author != nil {
		fmt.Fprintln(w, mutedStyle.Render("Posted by "+d.Author.Name))
	}
	renderComments(w, d.Comments)
}

func renderMenu(w io.Writer, m store.MenuIdea) {
	lines := []string{
		titleStyle.Render(m.Title) + "  " + mutedStyle.Render(m.ID),
		mutedStyle.Render(fmt.Sprintf("%s for %s · by %s · %s", m.Category, m.Audience, m.UserID, timeLabel(m.CreatedAt))),
	}
	for _, item := range m.Items {
		line := "• " + item.Name
		if item.Price != nil {
			line += fmt.Sprintf("  $%.2f", *item.Price)
		}
		if item.Description != "" {
			line += mutedStyle.Render(" - " + item.Description)
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("♥ %s  ★ %s", countLabel(len(m.Likes), "like"), countLabel(len(m.Saves), "save")))
	printCard(w, lines...)
}

func renderMenuDraft(w io.Writer, d *core.MenuDraft) {
	lines := []string{titleStyle.Render(d.Title)}
	for _, item := range d.Items {
		line := "• " + item.Name
		if item.Price != nil {
			line += fmt.Sprintf("  $%.2f", *item.Price)
		}
		if item.Description != "" {
			line += mutedStyle.Render(" - " + item.Description)
		}
		lines = append(lines, line)
	}
	printCard(w, lines...)
}

func renderPostDraft(w io.Writer, r *core.PostDraftResult) {
	lines := []string{
		titleStyle.Render(r.Draft.Title),
		r.Draft.Description,
		"Ingredients: " + strings.Join(r.Draft.Ingredients, ", "),
		tagStyle.Render("#" + strings.Join(r.Draft.Tags, " #")),
	}
	if r.ImageURL != "" {
		lines = append(lines, mutedStyle.Render(utils.Truncate(r.ImageURL, urlWidth)))
	}
	printCard(w, lines...)
}

func renderUser(w io.Writer, u store.User) {
	lines := []string{
		titleStyle.Render(u.Name) + "  " + mutedStyle.Render(u.ID),
		u.Email,
	}
	if u.Bio != "" {
		lines = append(lines, u.Bio)
	}
	lines = append(lines,
		mutedStyle.Render(utils.Truncate(u.Avatar, urlWidth)),
		fmt.Sprintf("%s · following %d", countLabel(len(u.Followers), "follower"), len(u.Following)),
	)
	printCard(w, lines...)
}

func renderProfile(w io.Writer, p *core.Profile) {
	renderUser(w, p.User)
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s, %s", countLabel(len(p.Posts), "post"), countLabel(len(p.Menus), "menu"))))
	for _, post := range p.Posts {
		renderPost(w, post)
	}
	for _, menu := range p.Menus {
		renderMenu(w, menu)
	}
}

func renderComments(w io.Writer, comments []store.Comment) {
	if len(comments) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No comments yet."))
		return
	}
	for _, c := range comments {
		fmt.Fprintf(w, "%s %s\n  %s\n", titleStyle.Render(c.UserID), mutedStyle.Render(timeLabel(c.CreatedAt)), c.Text)
	}
}

func renderStatus(w io.Writer, verb string, s *store.MembershipStatus) {
	state := "removed"
	if s.Active {
		state = "added"
	}
	printSuccess(w, "%s %s (%d total)", verb, state, s.Count)
}
