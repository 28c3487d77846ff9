package unisearch

// Curated US list served instead of querying the provider (see Search).
var usaUniversities = []Result{
	{Name: "Massachusetts Institute of Technology (MIT)", Country: "United States", WebPages: []string{"https://web.mit.edu/"}, Domains: []string{"mit.edu"}},
	{Name: "Stanford University", Country: "United States", WebPages: []string{"https://www.stanford.edu/"}, Domains: []string{"stanford.edu"}},
	{Name: "Harvard University", Country: "United States", WebPages: []string{"https://www.harvard.edu/"}, Domains: []string{"harvard.edu"}},
	{Name: "California Institute of Technology (Caltech)", Country: "United States", WebPages: []string{"https://www.caltech.edu/"}, Domains: []string{"caltech.edu"}},
	{Name: "University of Chicago", Country: "United States", WebPages: []string{"https://www.uchicago.edu/"}, Domains: []string{"uchicago.edu"}},
	{Name: "Princeton University", Country: "United States", WebPages: []string{"https://www.princeton.edu/"}, Domains: []string{"princeton.edu"}},
	{Name: "Cornell University", Country: "United States", WebPages: []string{"https://www.cornell.edu/"}, Domains: []string{"cornell.edu"}},
	{Name: "Yale University", Country: "United States", WebPages: []string{"https://www.yale.edu/"}, Domains: []string{"yale.edu"}},
	{Name: "Columbia University", Country: "United States", WebPages: []string{"https://www.columbia.edu/"}, Domains: []string{"columbia.edu"}},
	{Name: "University of Pennsylvania", Country: "United States", WebPages: []string{"https://www.upenn.edu/"}, Domains: []string{"upenn.edu"}},
	{Name: "University of Michigan-Ann Arbor", Country: "United States", WebPages: []string{"https://umich.edu/"}, Domains: []string{"umich.edu"}},
	{Name: "Johns Hopkins University", Country: "United States", WebPages: []string{"https://www.jhu.edu/"}, Domains: []string{"jhu.edu"}},
	{Name: "University of California, Berkeley (UCB)", Country: "United States", WebPages: []string{"https://www.berkeley.edu/"}, Domains: []string{"berkeley.edu"}},
	{Name: "University of California, Los Angeles (UCLA)", Country: "United States", WebPages: []string{"https://www.ucla.edu/"}, Domains: []string{"ucla.edu"}},
	{Name: "New York University (NYU)", Country: "United States", WebPages: []string{"https://www.nyu.edu/"}, Domains: []string{"nyu.edu"}},
	{Name: "Duke University", Country: "United States", WebPages: []string{"https://duke.edu/"}, Domains: []string{"duke.edu"}},
	{Name: "Northwestern University", Country: "United States", WebPages: []string{"https://www.northwestern.edu/"}, Domains: []string{"northwestern.edu"}},
	{Name: "Carnegie Mellon University", Country: "United States", WebPages: []string{"https://www.cmu.edu/"}, Domains: []string{"cmu.edu"}},
	{Name: "University of Washington", Country: "United States", WebPages: []string{"https://www.washington.edu/"}, Domains: []string{"washington.edu"}},
	{Name: "University of California, San Diego (UCSD)", Country: "United States", WebPages: []string{"https://ucsd.edu/"}, Domains: []string{"ucsd.edu"}},
	{Name: "Georgia Institute of Technology", Country: "United States", WebPages: []string{"https://www.gatech.edu/"}, Domains: []string{"gatech.edu"}},
	{Name: "University of Texas at Austin", Country: "United States", WebPages: []string{"https://www.utexas.edu/"}, Domains: []string{"utexas.edu"}},
	{Name: "University of Illinois at Urbana-Champaign", Country: "United States", WebPages: []string{"https://illinois.edu/"}, Domains: []string{"illinois.edu"}},
	{Name: "University of Wisconsin-Madison", Country: "United States", WebPages: []string{"https://www.wisc.edu/"}, Domains: []string{"wisc.edu"}},
	{Name: "Boston University", Country: "United States", WebPages: []string{"https://www.bu.edu/"}, Domains: []string{"bu.edu"}},
	{Name: "University of Southern California (USC)", Country: "United States", WebPages: []string{"https://www.usc.edu/"}, Domains: []string{"usc.edu"}},
	{Name: "Brown University", Country: "United States", WebPages: []string{"https://www.brown.edu/"}, Domains: []string{"brown.edu"}},
	{Name: "University of North Carolina at Chapel Hill", Country: "United States", WebPages: []string{"https://www.unc.edu/"}, Domains: []string{"unc.edu"}},
	{Name: "Rice University", Country: "United States", WebPages: []string{"https://www.rice.edu/"}, Domains: []string{"rice.edu"}},
	{Name: "Dartmouth College", Country: "United States", WebPages: []string{"https://home.dartmouth.edu/"}, Domains: []string{"dartmouth.edu"}},
}
