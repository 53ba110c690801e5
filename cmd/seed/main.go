// Seeder command for populating demo leads.
//
// SAFETY: This command ONLY runs when:
//   - APP_ENV=development
//   - --confirm flag is provided
//
// Usage:
//
//	APP_ENV=development go run ./cmd/seed --count 25 --confirm
//
// Leads go to the store selected by LEAD_STORE. Default count is 25.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"course-enrolment/internal/config"
	"course-enrolment/internal/courses"
	"course-enrolment/internal/models"
	"course-enrolment/internal/store"
)

var (
	firstNames = []string{"Asha", "Rahul", "Priya", "Vikram", "Neha", "Arjun", "Kavya", "Rohan", "Sneha", "Aditya"}
	lastNames  = []string{"Rao", "Sharma", "Iyer", "Patel", "Nair", "Gupta", "Menon", "Singh"}
	education  = []string{"B.Tech", "B.Sc Computer Science", "BCA", "MCA", "12th grade", "B.Com"}
	interests  = []string{"Building web apps", "Data analysis", "Mobile apps", "AI products", ""}
)

func main() {
	count := flag.Int("count", 25, "Number of leads to seed")
	confirm := flag.Bool("confirm", false, "Confirm seeding (required)")
	flag.Parse()

	cfg := config.Load()

	// Safety check: APP_ENV must be development
	if !cfg.IsDevelopment() {
		log.Fatalf("ERROR: Seeder can only run in development environment. Set APP_ENV=development and try again.")
	}
	// Safety check: --confirm flag required
	if !*confirm {
		log.Fatalf("ERROR: --confirm flag is required. Usage: APP_ENV=development go run ./cmd/seed --count %d --confirm", *count)
	}

	catalog, err := courses.Load()
	if err != nil {
		log.Fatalf("Failed to load course catalog: %v", err)
	}

	ctx := context.Background()
	leads, closeStore, err := store.Open(ctx, cfg, cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to open lead store: %v", err)
	}
	defer closeStore()

	log.Printf("SEEDER: Preparing to insert %d demo leads into %s store", *count, cfg.LeadStore)

	perCourse, inserted := seed(ctx, leads, catalog.All(), *count)

	log.Printf("SEEDER: Inserted %d leads", inserted)
	names := make([]string, 0, len(perCourse))
	for name := range perCourse {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		log.Printf("  %-20s %d", name, perCourse[name])
	}
}

// seed writes count leads spread round-robin over all and reports how many
// landed per course.
func seed(ctx context.Context, leads models.LeadStore, all []courses.Course, count int) (map[string]int, int) {
	perCourse := make(map[string]int)
	inserted := 0
	for i := 0; i < count; i++ {
		lead := demoLead(i, all[i%len(all)])
		if err := leads.CreateLead(ctx, lead); err != nil {
			log.Printf("ERROR: Failed to insert lead %d (%s): %v", i, lead.Name, err)
			continue
		}
		perCourse[lead.CourseType]++
		inserted++
	}
	return perCourse, inserted
}

func demoLead(i int, course courses.Course) *models.Lead {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames))%len(lastNames)]
	return &models.Lead{
		ID:         uuid.New(),
		Name:       first + " " + last,
		Email:      fmt.Sprintf("demo.%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
		Phone:      fmt.Sprintf("98%08d", i),
		Education:  education[i%len(education)],
		Interests:  interests[i%len(interests)],
		CourseType: course.ID,
		Status:     models.LeadStatusPending,
	}
}
