package healthdata

import "time"

// timeNow is a package-level variable for testability.
// Metric history counts back from this clock, not from the dataset.
var timeNow = time.Now
