// Command decide resolves one admission case described in a YAML file
// and prints the resulting decision as JSON.
//
// Usage:
//
//	decide -case testdata/case.yaml [-config engine.yaml]
//
// Committee-path cases must list their votes and committee members in
// the case file; the bundled collector simply replays them. Discernment
// notes are classified with the keyword heuristic unless
// ANTHROPIC_API_KEY is set, in which case the LLM classifier is used.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veritasedu/conclave/infrastructure/alignment"
	"github.com/veritasedu/conclave/internal/application"
	"github.com/veritasedu/conclave/internal/domain"
	"github.com/veritasedu/conclave/internal/ports"
)

// caseFile is the YAML shape of one admission case.
type caseFile struct {
	ApplicationID     string             `yaml:"application_id"`
	Program           string             `yaml:"program"`
	RequiresCommittee bool               `yaml:"requires_committee"`
	IsAppeal          bool               `yaml:"is_appeal"`
	Expedited         bool               `yaml:"expedited"`
	Scores            map[string]float64 `yaml:"scores"`

	Members []struct {
		ID        string  `yaml:"id"`
		Name      string  `yaml:"name"`
		Role      string  `yaml:"role"`
		Weight    float64 `yaml:"weight"`
		Available bool    `yaml:"available"`
	} `yaml:"members"`

	Votes []struct {
		VoterID         string  `yaml:"voter_id"`
		Weight          float64 `yaml:"weight"`
		Choice          string  `yaml:"choice"`
		Confidence      float64 `yaml:"confidence"`
		Rationale       string  `yaml:"rationale"`
		DiscernmentNote string  `yaml:"discernment_note"`
	} `yaml:"votes"`
}

// replayCollector hands back the votes listed in the case file.
type replayCollector struct{ votes []domain.Vote }

func (c *replayCollector) CollectVotes(_ context.Context, _ *domain.VotingSession) ([]domain.Vote, error) {
	return c.votes, nil
}

func main() {
	var (
		casePath   = flag.String("case", "", "Path to the YAML case file (required)")
		configPath = flag.String("config", "", "Optional engine configuration YAML")
	)
	flag.Parse()

	if *casePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	cfg := application.DefaultEngineConfig()
	if *configPath != "" {
		loaded, err := application.LoadEngineConfig(ctx, &application.YAMLFileLoader{Path: *configPath})
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}

	caseData, err := os.ReadFile(*casePath)
	if err != nil {
		log.Fatalf("Failed to read case file: %v", err)
	}
	var cf caseFile
	if err := yaml.Unmarshal(caseData, &cf); err != nil {
		log.Fatalf("Failed to parse case file: %v", err)
	}

	req, collector, err := buildRequest(cf)
	if err != nil {
		log.Fatalf("Invalid case file: %v", err)
	}

	resolver, err := application.NewDecisionResolver(cfg, application.Dependencies{
		Classifier: buildClassifier(),
		Collector:  collector,
	})
	if err != nil {
		log.Fatalf("Failed to build resolver: %v", err)
	}

	outcome, err := resolver.Resolve(ctx, req)
	if err != nil {
		log.Fatalf("Failed to resolve case: %v", err)
	}

	out, err := json.MarshalIndent(outcome, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode outcome: %v", err)
	}
	fmt.Println(string(out))
}

// buildRequest converts the parsed case file into a resolve request and
// the collector that replays its votes.
func buildRequest(cf caseFile) (application.ResolveRequest, ports.VoteCollector, error) {
	if cf.ApplicationID == "" {
		return application.ResolveRequest{}, nil, fmt.Errorf("application_id is required")
	}

	scores := make(map[domain.Component]domain.ComponentScore, len(cf.Scores))
	for name, value := range cf.Scores {
		scores[domain.Component(name)] = domain.ComponentScore{Value: value, Source: "case_file"}
	}

	members := make([]domain.CommitteeMember, 0, len(cf.Members))
	for _, m := range cf.Members {
		members = append(members, domain.CommitteeMember{
			ID:        m.ID,
			Name:      m.Name,
			Role:      m.Role,
			Weight:    m.Weight,
			Available: m.Available,
		})
	}

	now := time.Now()
	votes := make([]domain.Vote, 0, len(cf.Votes))
	for _, v := range cf.Votes {
		votes = append(votes, domain.Vote{
			VoterID:         v.VoterID,
			Weight:          v.Weight,
			Choice:          domain.VoteChoice(v.Choice),
			Confidence:      v.Confidence,
			Rationale:       v.Rationale,
			DiscernmentNote: v.DiscernmentNote,
			CastAt:          now,
		})
	}

	req := application.ResolveRequest{
		ApplicationID: cf.ApplicationID,
		Program:       cf.Program,
		Assessment: &domain.AssessmentInput{
			ApplicationID: cf.ApplicationID,
			Scores:        scores,
			SubmittedAt:   now,
		},
		RequiresCommittee: cf.RequiresCommittee,
		IsAppeal:          cf.IsAppeal,
		Expedited:         cf.Expedited,
		Candidates:        members,
	}
	return req, &replayCollector{votes: votes}, nil
}

// buildClassifier picks the LLM classifier when an API key is present
// and falls back to the keyword heuristic otherwise.
func buildClassifier() ports.AlignmentClassifier {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		classifier, err := alignment.NewLLMClassifier(alignment.LLMConfig{APIKey: key})
		if err != nil {
			log.Fatalf("Failed to build LLM classifier: %v", err)
		}
		return classifier
	}
	classifier, err := alignment.NewKeywordClassifier(alignment.DefaultKeywordConfig())
	if err != nil {
		log.Fatalf("Failed to build keyword classifier: %v", err)
	}
	return classifier
}
