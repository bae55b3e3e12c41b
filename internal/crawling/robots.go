package crawling

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/askly/internal/fetch"
)

// RobotsUserAgent is the agent name robots.txt directives are evaluated for.
const RobotsUserAgent = "AsklyBot"

// RobotsTimeout bounds the robots.txt fetch. A slow robots endpoint must not
// stall crawl startup.
const RobotsTimeout = 3 * time.Second

// CanCrawl fetches {origin}/robots.txt and reports whether the target URL is
// allowed for RobotsUserAgent. Any fetch or parse failure fails open: a
// broken robots.txt must not block legitimate crawls.
func CanCrawl(ctx context.Context, target *url.URL) bool {
	robotsURL := target.Scheme + "://" + target.Host + "/robots.txt"

	result, err := fetch.URL(ctx, robotsURL, &fetch.Options{
		Timeout: RobotsTimeout,
	})
	if err != nil {
		return true
	}

	rules := parseRobots(string(result.Body))

	path := target.EscapedPath()
	if path == "" {
		path = "/"
	}
	if target.RawQuery != "" {
		path += "?" + target.RawQuery
	}

	if !rules.allows(path) {
		log.Printf("[crawl] robots.txt at %s disallows %s", robotsURL, path)
		return false
	}
	return true
}

// robotsRules holds the Allow/Disallow directives that apply to our agent.
type robotsRules struct {
	allowed    []string
	disallowed []string
}

// parseRobots extracts the directive groups matching RobotsUserAgent,
// including the wildcard group. Consecutive User-agent lines share one group,
// so their directives apply to every listed agent. Unparsable lines are
// skipped.
func parseRobots(content string) *robotsRules {
	rules := &robotsRules{}
	inOurGroup := false
	inAgentRun := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch key {
		case "user-agent":
			// A User-agent line after a directive starts a fresh group
			if !inAgentRun {
				inOurGroup = false
			}
			inAgentRun = true
			agent := strings.ToLower(value)
			if agent == "*" || strings.Contains(strings.ToLower(RobotsUserAgent), agent) ||
				strings.Contains(agent, strings.ToLower(RobotsUserAgent)) {
				inOurGroup = true
			}
		case "disallow":
			inAgentRun = false
			if inOurGroup && value != "" {
				rules.disallowed = append(rules.disallowed, value)
			}
		case "allow":
			inAgentRun = false
			if inOurGroup && value != "" {
				rules.allowed = append(rules.allowed, value)
			}
		}
	}

	return rules
}

// allows evaluates a path against the rules with longest-match semantics:
// the most specific matching directive wins, and a tie in specificity goes
// to Allow.
func (r *robotsRules) allows(path string) bool {
	allowLen := -1
	for _, pattern := range r.allowed {
		if matchRobotsPattern(pattern, path) && len(pattern) > allowLen {
			allowLen = len(pattern)
		}
	}

	disallowLen := -1
	for _, pattern := range r.disallowed {
		if matchRobotsPattern(pattern, path) && len(pattern) > disallowLen {
			disallowLen = len(pattern)
		}
	}

	return allowLen >= disallowLen
}

// matchRobotsPattern checks if a URL path matches a robots.txt pattern.
// Supports * (any sequence) and $ (end of URL) wildcards.
func matchRobotsPattern(pattern, path string) bool {
	if pattern == "" {
		return false
	}

	endsWithDollar := strings.HasSuffix(pattern, "$")
	if endsWithDollar {
		pattern = pattern[:len(pattern)-1]
	}

	if strings.Contains(pattern, "*") {
		return matchWildcard(pattern, path, endsWithDollar)
	}

	if endsWithDollar {
		return path == pattern
	}
	return strings.HasPrefix(path, pattern)
}

// matchWildcard handles * wildcard matching in robots.txt patterns.
func matchWildcard(pattern, path string, mustEnd bool) bool {
	parts := strings.Split(pattern, "*")
	pos := 0

	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(path[pos:], part)
		if idx < 0 {
			return false
		}
		if i == 0 && idx != 0 {
			// First segment anchors at the start of the path
			return false
		}
		pos += idx + len(part)
	}

	if mustEnd {
		return pos == len(path)
	}
	return true
}
