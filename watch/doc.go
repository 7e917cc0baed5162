// Package watch re-runs a build when its input files change.
//
// A Watcher observes the directories that hold the API, models and
// examples files and filters events down to those files. Changes are
// collapsed into a single pending notification, and the goroutine that
// called Run drains it with one synchronous rebuild at a time, so rebuilds
// never overlap and a burst of saves costs at most one extra rebuild.
//
//	w, err := watch.New([]string{"api.apish", "models.apish"},
//		func(ctx context.Context) error {
//			_, err := project.BuildWithOptions(project.WithFilePath("api.apish"))
//			return err
//		},
//		watch.WithDebounce(100*time.Millisecond),
//	)
//	if err != nil {
//		return err
//	}
//	defer w.Close()
//	return w.Run(ctx)
//
// A rebuild that returns an error, such as a syntax error in the document,
// is logged and the loop keeps watching.
package watch
