package dummydb

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-records/core/filter"
	"github.com/trezcool/masomo-records/core/student"
)

var (
	lastNames      = []string{"Santos", "Reyes", "Cruz", "Bautista", "Ocampo", "Garcia", "Mendoza", "Torres", "Villanueva", "Ramos", "Aquino", "Castillo"}
	firstNames     = []string{"Maria", "Jose", "Angelo", "Patricia", "Mark", "Kristine", "John Paul", "Camille", "Rhea", "Miguel", "Andrea", "Carlo"}
	middleNames    = []string{"", "Dela", "Lopez", "Manalo", "Rivera", "Soriano"}
	statuses       = []string{"LOW INCOME", "LOWER MIDDLE", "MIDDLE", "UPPER MIDDLE"}
	living         = []string{"WITH PARENTS", "WITH RELATIVES", "DORMITORY", "ALONE"}
	works          = []string{"NOT WORKING", "PART-TIME", "FULL-TIME"}
	schools        = []string{"Rizal National High School", "St. Mary's Academy", "Lyceum Senior High", "Bayanihan Integrated School"}
	subjects       = []string{"Clinical Chemistry", "Hematology", "Microbiology", "Immunology"}
	retakeSubjects = []string{"ANAPHY", "CHEM", "PHYSICS", "ALGEBRA"}
	reviewers      = []string{"CPAR Review", "Excel Review Center", "Pinnacle Review"}
)

// DemoStudents builds n deterministic students spread over the programs of graph.
func DemoStudents(n int, graph *filter.OptionsGraph) []student.NewStudent {
	type placement struct{ college, program string }
	var places []placement
	for _, college := range graph.List(filter.Colleges) {
		for _, program := range graph.KeyedList(filter.Programs, college.Value) {
			places = append(places, placement{college.Value, program.Value})
		}
	}
	if len(places) == 0 {
		return nil
	}
	years := graph.List(filter.AcademicYears)
	batches := graph.List(filter.Batches)

	rnd := rand.New(rand.NewSource(42))
	out := make([]student.NewStudent, 0, n)
	for i := 0; i < n; i++ {
		place := places[i%len(places)]
		duration, ok := graph.Count(filter.Years, place.program)
		if !ok {
			duration = 4
		}
		yearLevel := 1 + rnd.Intn(duration)

		ns := student.NewStudent{
			StudentNumber:       fmt.Sprintf("2025%05d", i+1),
			LastName:            lastNames[rnd.Intn(len(lastNames))],
			FirstName:           firstNames[rnd.Intn(len(firstNames))],
			MiddleName:          middleNames[rnd.Intn(len(middleNames))],
			College:             place.college,
			Program:             place.program,
			YearLevel:           yearLevel,
			Semester:            "1ST",
			BoardBatch:          strconv.Itoa(1 + rnd.Intn(2)),
			Birthdate:           fmt.Sprintf("%d-%02d-%02d", 2000+rnd.Intn(7), 1+rnd.Intn(12), 1+rnd.Intn(28)),
			SocioeconomicStatus: statuses[rnd.Intn(len(statuses))],
			Address:             fmt.Sprintf("%d Mabini St., Brgy. %d", 1+rnd.Intn(300), 1+rnd.Intn(90)),
			LivingArrangement:   living[rnd.Intn(len(living))],
			WorkStatus:          works[rnd.Intn(len(works))],
			Language:            "FILIPINO",
			LastSchool:          schools[rnd.Intn(len(schools))],
		}
		if rnd.Intn(2) == 0 {
			ns.Sex = "MALE"
		} else {
			ns.Sex = "FEMALE"
		}
		if rnd.Intn(4) == 0 {
			ns.Scholarship = "CHED MERIT"
		}
		if len(years) > 0 {
			ns.AcademicYear = years[len(years)-1].Value
		}
		if len(batches) > 0 {
			ns.BatchYear = batches[rnd.Intn(len(batches))].Value
		}
		if sections := graph.KeyedList(filter.Sections, place.program+"-"+strconv.Itoa(yearLevel)); len(sections) > 0 {
			ns.Section = sections[rnd.Intn(len(sections))].Value
		}
		out = append(out, ns)
	}
	return out
}

// demoMetrics returns plausible values for every metric view of s.
func demoMetrics(rnd *rand.Rand, s student.Student) map[string]map[string]string {
	grade := func() string { return fmt.Sprintf("%.2f", 1+float64(rnd.Intn(200))/100) }
	metrics := make(map[string]map[string]string)

	gwa := make(map[string]string)
	for y := 1; y <= s.YearLevel; y++ {
		gwa[strconv.Itoa(y)+"Y-1S"] = grade()
		if y < s.YearLevel {
			gwa[strconv.Itoa(y)+"Y-2S"] = grade()
		}
	}
	metrics["gwa"] = gwa

	board, mock, ratings, results := map[string]string{}, map[string]string{}, map[string]string{}, map[string]string{}
	for _, subj := range subjects {
		board[subj] = grade()
		mock[subj] = fmt.Sprintf("%d/100", 50+rnd.Intn(51))
		ratings[subj] = strconv.Itoa(70 + rnd.Intn(31))
	}
	for i := 1; i <= 2; i++ {
		results["Exam "+strconv.Itoa(i)] = strconv.Itoa(60+rnd.Intn(41)) + "%"
	}
	metrics["board-grades"] = board
	metrics["mock-scores"] = mock
	metrics["performance"] = ratings
	metrics["simulation"] = results

	retakes := make(map[string]string, len(retakeSubjects))
	for _, subj := range retakeSubjects {
		retakes[subj] = strconv.Itoa(rnd.Intn(2))
	}
	metrics["retakes"] = retakes
	total := 20
	metrics["attendance"] = map[string]string{"attended": strconv.Itoa(total - rnd.Intn(6)), "total": strconv.Itoa(total)}
	metrics["recognition"] = map[string]string{"recognition_count": strconv.Itoa(rnd.Intn(4))}
	metrics["review-center"] = map[string]string{"review_center": reviewers[rnd.Intn(len(reviewers))]}
	if s.YearLevel >= 4 {
		status := "PASSED"
		if rnd.Intn(5) == 0 {
			status = "FAILED"
		}
		metrics["licensure"] = map[string]string{"exam_date": "2025-08-15", "status": status, "first_attempt": "YES"}
	}
	return metrics
}

// Seed adds n demo students with their metrics through svc.
func Seed(ctx context.Context, svc *student.Service, n int) ([]student.Student, error) {
	rnd := rand.New(rand.NewSource(7))
	students := make([]student.Student, 0, n)
	for _, ns := range DemoStudents(n, svc.Graph()) {
		s, err := svc.Create(ctx, ns)
		if err != nil {
			return nil, errors.Wrapf(err, "seeding %s", ns.StudentNumber)
		}
		metrics := demoMetrics(rnd, s)
		for _, view := range student.Views("") {
			values, ok := metrics[view.Name]
			if !ok {
				continue
			}
			if s, err = svc.UpdateMetric(ctx, s.ID, view.Name, values); err != nil {
				return nil, errors.Wrapf(err, "seeding %s %s", ns.StudentNumber, view.Name)
			}
		}
		students = append(students, s)
	}
	return students, nil
}
