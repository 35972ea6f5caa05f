// seed_modules.go enrolls catalog modules for a user through the Gradebook
// API and optionally enters marks from a CSV of code,assessment,mark rows.
//
// Usage:
//
//	go run scripts/seed_modules.go -api http://localhost:8700 -user student-1 -codes MEEN30100,ACM30030 -marks marks.csv
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
)

type assessment struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

type enrollResponse struct {
	Module struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	} `json:"module"`
	Enrolled    bool         `json:"enrolled"`
	Assessments []assessment `json:"assessments"`
}

type markRow struct {
	Code       string
	Assessment string
	Mark       string
}

type client struct {
	base  string
	token string
	user  string
	http  *http.Client
}

func (c *client) post(path string, body interface{}, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequest("POST", c.base+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set("X-User-ID", c.user)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode, nil
}

func main() {
	apiURL := flag.String("api", "http://localhost:8700", "Gradebook API base URL")
	token := flag.String("token", "", "bearer token (overrides -user)")
	user := flag.String("user", "", "X-User-ID header value when no token is used")
	codes := flag.String("codes", "", "comma separated catalog codes to enroll")
	marksPath := flag.String("marks", "", "CSV of code,assessment,mark rows")
	dryRun := flag.Bool("dry-run", false, "print what would be sent without calling the API")
	flag.Parse()

	if *token == "" && *user == "" {
		log.Fatal("one of -token or -user is required")
	}

	var enroll []string
	for _, c := range strings.Split(*codes, ",") {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			enroll = append(enroll, c)
		}
	}

	var marks []markRow
	if *marksPath != "" {
		rows, err := readMarks(*marksPath)
		if err != nil {
			log.Fatalf("read marks: %v", err)
		}
		marks = rows
	}
	// Modules with marks are enrolled even if not listed in -codes.
	for _, m := range marks {
		if !contains(enroll, m.Code) {
			enroll = append(enroll, m.Code)
		}
	}

	log.Printf("%d modules to enroll, %d marks to enter", len(enroll), len(marks))

	if *dryRun {
		for i, code := range enroll {
			fmt.Printf("[%d] enroll %s\n", i+1, code)
		}
		for _, m := range marks {
			fmt.Printf("    mark %s / %q = %s\n", m.Code, m.Assessment, m.Mark)
		}
		return
	}

	c := &client{base: strings.TrimRight(*apiURL, "/"), token: *token, user: *user, http: &http.Client{}}
	byCode := make(map[string][]assessment)
	enrolled, existing, failed := 0, 0, 0
	for _, code := range enroll {
		var resp enrollResponse
		if _, err := c.post("/api/v1/catalog/enroll", map[string]string{"code": code}, &resp); err != nil {
			log.Printf("skip %s: %v", code, err)
			failed++
			continue
		}
		if resp.Enrolled {
			enrolled++
		} else {
			existing++
		}
		byCode[code] = resp.Assessments
	}

	entered, skipped := 0, 0
	for _, m := range marks {
		a, err := match(byCode[m.Code], m.Assessment)
		if err != nil {
			log.Printf("skip %s / %q: %v", m.Code, m.Assessment, err)
			skipped++
			continue
		}
		body := map[string]string{"mode": "percent", "value": m.Mark}
		if _, err := c.post("/api/v1/assessments/"+a.ID+"/mark", body, nil); err != nil {
			log.Printf("skip %s / %q: %v", m.Code, m.Assessment, err)
			skipped++
			continue
		}
		entered++
	}

	log.Printf("done: %d enrolled, %d already enrolled, %d failed; %d marks entered, %d skipped",
		enrolled, existing, failed, entered, skipped)
}

func readMarks(path string) ([]markRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 3
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	var rows []markRow
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "code") {
			continue
		}
		rows = append(rows, markRow{
			Code:       strings.ToUpper(strings.TrimSpace(rec[0])),
			Assessment: strings.TrimSpace(rec[1]),
			Mark:       strings.TrimSpace(rec[2]),
		})
	}
	return rows, nil
}

// match finds an assessment by exact name, then by case-insensitive prefix.
func match(as []assessment, name string) (assessment, error) {
	for _, a := range as {
		if a.Name == name {
			return a, nil
		}
	}
	var found []assessment
	for _, a := range as {
		if strings.HasPrefix(strings.ToLower(a.Name), strings.ToLower(name)) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return assessment{}, errors.New("no assessment with that name")
	}
	return assessment{}, fmt.Errorf("%d assessments match", len(found))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
