package ulapi

import (
	"fmt"
	"sort"
)

// Site holds the three API hosts of one platform deployment. Login, course
// listing and the watch-video ping live on CourseAPI; courseware content,
// study records and the sync endpoint live on UaAPI.
type Site struct {
	Name      string
	BaseAPI   string
	CourseAPI string
	UaAPI     string
}

var sites = map[string]Site{
	"ulearning": {
		Name:      "ulearning",
		BaseAPI:   "https://ulearning.cn",
		CourseAPI: "https://courseapi.ulearning.cn",
		UaAPI:     "https://api.ulearning.cn",
	},
	"dgut": {
		Name:      "dgut",
		BaseAPI:   "https://lms.dgut.edu.cn",
		CourseAPI: "https://lms.dgut.edu.cn/courseapi",
		UaAPI:     "https://ua.dgut.edu.cn/uaapi",
	},
}

// SiteNames lists the known site registry keys in stable order.
func SiteNames() []string {
	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SiteByName resolves a registry key to its Site.
func SiteByName(name string) (Site, error) {
	site, ok := sites[name]
	if !ok {
		return Site{}, fmt.Errorf("unknown site %q (known: %v)", name, SiteNames())
	}
	return site, nil
}
