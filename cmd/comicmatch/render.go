package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

func optionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 3, 64)
}

func issueTable(issues []domain.IssueCandidate) string {
	headers := []string{"Score", "ID", "Series", "Issue", "Year", "Publisher", "Volume"}
	rows := make([][]string, 0, len(issues))
	for _, c := range issues {
		volume := ""
		if c.VolumeID > 0 {
			volume = strconv.Itoa(c.VolumeID)
		}
		rows = append(rows, []string{
			formatScore(c.Score),
			strconv.Itoa(c.ID),
			c.SeriesName,
			c.IssueNumber,
			optionalInt(c.CoverYear),
			c.Publisher,
			volume,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignLeft, alignRight})
}

func volumeTable(volumes []domain.VolumeCandidate) string {
	headers := []string{"Score", "ID", "Name", "Start", "Issues", "Publisher"}
	rows := make([][]string, 0, len(volumes))
	for _, v := range volumes {
		rows = append(rows, []string{
			formatScore(v.Score),
			strconv.Itoa(v.ID),
			v.Name,
			optionalInt(v.StartYear),
			strconv.Itoa(v.IssueCount),
			v.Publisher,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignLeft})
}

func statusTable(status []domain.EndpointStatus) string {
	headers := []string{"Endpoint", "Used", "Remaining", "Limit", "Resets"}
	rows := make([][]string, 0, len(status))
	for _, s := range status {
		reset := ""
		if s.ResetAt != nil {
			reset = s.ResetAt.Local().Format(time.Kitchen)
		}
		rows = append(rows, []string{
			s.Endpoint,
			strconv.Itoa(s.Used),
			strconv.Itoa(s.Remaining),
			strconv.Itoa(s.Limit),
			reset,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft})
}

// renderIssueMetadata formats an issue as labelled lines, skipping empty fields.
func renderIssueMetadata(m *domain.IssueMetadata) string {
	var b strings.Builder
	line := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-14s %s\n", label+":", value)
		}
	}
	list := func(label string, values []string) {
		line(label, strings.Join(values, ", "))
	}

	title := fmt.Sprintf("%s #%s", m.SeriesName, m.IssueNumber)
	if m.Title != "" {
		title += " - " + m.Title
	}
	fmt.Fprintln(&b, title)

	line("Issue ID", strconv.Itoa(m.IssueID))
	if m.VolumeID > 0 {
		line("Volume ID", strconv.Itoa(m.VolumeID))
	}
	line("Volume start", optionalInt(m.VolumeStartYear))
	line("Publisher", m.Publisher)
	line("Imprint", m.Imprint)
	line("Cover date", coverDate(m))
	list("Writers", m.Writers)
	list("Pencillers", m.Pencillers)
	list("Inkers", m.Inkers)
	list("Colorists", m.Colorists)
	list("Letterers", m.Letterers)
	list("Cover artists", m.CoverArtists)
	list("Editors", m.Editors)
	list("Characters", m.Characters)
	list("Teams", m.Teams)
	list("Locations", m.Locations)
	list("Story arcs", m.StoryArcs)
	line("Site", m.SiteURL)
	for i, u := range m.CoverURLs {
		if i == 0 {
			line("Covers", u)
			continue
		}
		fmt.Fprintf(&b, "%-14s %s\n", "", u)
	}
	return b.String()
}

func coverDate(m *domain.IssueMetadata) string {
	if m.CoverYear == nil {
		return ""
	}
	parts := []string{fmt.Sprintf("%04d", *m.CoverYear)}
	if m.CoverMonth != nil {
		parts = append(parts, fmt.Sprintf("%02d", *m.CoverMonth))
		if m.CoverDay != nil {
			parts = append(parts, fmt.Sprintf("%02d", *m.CoverDay))
		}
	}
	return strings.Join(parts, "-")
}
