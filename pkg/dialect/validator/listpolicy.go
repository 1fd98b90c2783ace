package validator

import (
	"regexp"
	"strings"

	"helm-apps/dialect/pkg/dialect/include"
	"helm-apps/dialect/pkg/dialect/scope"
)

// builtinListFields are Kubernetes fields that legacy documents write as
// native lists. They pass only with Options.AllowLegacyBuiltins.
var builtinListFields = map[string]bool{
	"accessModes":               true,
	"args":                      true,
	"command":                   true,
	"ports":                     true,
	"tolerations":               true,
	"imagePullSecrets":          true,
	"hostAliases":               true,
	"topologySpreadConstraints": true,
	"clusterIPs":                true,
	"externalIPs":               true,
	"ipFamilies":                true,
	"loadBalancerSourceRanges":  true,
	"extraGroups":               true,
	"nodeGroups":                true,
	"sshPublicKeys":             true,
	"volumes":                   true,
	"volumeClaimTemplates":      true,
}

// allowedListPaths match values paths whose native lists are rendered as is.
var allowedListPaths = []*regexp.Regexp{
	regexp.MustCompile(`^Values\.global\._includes\..*`),
	regexp.MustCompile(`^Values\.apps-kafka-strimzi\..*\.kafka\.brokers\.hosts\.[^.]+$`),
	regexp.MustCompile(`^Values\.apps-kafka-strimzi\..*\.kafka\.ui\.dex\.allowedGroups\.[^.]+$`),
	regexp.MustCompile(`^Values\..*\.configFilesYAML\..*\.content\..*`),
	regexp.MustCompile(`^Values\..*\.envYAML\..*`),
	regexp.MustCompile(`^Values\..*\.extraFields(\..*)?$`),
	regexp.MustCompile(`^Values\.apps-service-accounts\.[^.]+\.(roles|clusterRoles)\.[^.]+\.rules\.[^.]+\.(apiGroups|resources|verbs|resourceNames|nonResourceURLs)$`),
	regexp.MustCompile(`^Values\.apps-service-accounts\.[^.]+\.(roles|clusterRoles)\.[^.]+\.binding\.subjects$`),
	regexp.MustCompile(`^Values\..*\.(containers|initContainers)\.[^.]+\.(sharedEnvConfigMaps|sharedEnvSecrets)$`),
}

// Options tunes the list policy.
type Options struct {
	// AllowLegacyBuiltins accepts native lists under well-known Kubernetes
	// list fields such as ports or args.
	AllowLegacyBuiltins bool
}

// ValidateListPolicy reports every native YAML list item that sits where
// the dialect expects a map or a string. List markers inside block scalars
// are text and never reported.
func ValidateListPolicy(text string, opts Options) []Issue {
	idx := scope.Scan(text)

	var issues []Issue
	for i := 0; i < idx.Len(); i++ {
		if idx.Line(i).Kind != scope.LineListItem {
			continue
		}
		keys := idx.Path(i)
		path := ValuesPath(keys)
		key := ""
		if len(keys) > 0 {
			key = keys[len(keys)-1]
		}
		if IsAllowedListPath(path, key, opts.AllowLegacyBuiltins) {
			continue
		}
		issues = append(issues, Issue{
			Code:     CodeUnexpectedList,
			Message:  "native YAML list is not allowed here",
			Path:     path,
			Line:     i + 1,
			Severity: SeverityError,
		})
	}
	return issues
}

// IsAllowedListPath reports whether a native list owned by key at path is
// accepted.
func IsAllowedListPath(path, key string, allowBuiltins bool) bool {
	if key == include.IncludeKey || key == include.IncludeFilesKey {
		return true
	}
	for _, re := range allowedListPaths {
		if re.MatchString(path) {
			return true
		}
	}
	return allowBuiltins && builtinListFields[key]
}

// ValuesPath renders keys as a template values path, "Values.a.b".
func ValuesPath(keys []string) string {
	if len(keys) == 0 {
		return "Values"
	}
	return "Values." + strings.Join(keys, ".")
}
