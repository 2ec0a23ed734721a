// Package tmdb provides a client for the TMDB v3 API covering the session
// handshake, genre listings, account favorites and poster images.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := tmdb.NewClient("your-api-key", logger,
//		tmdb.WithTimeout(30*time.Second),
//		tmdb.WithMaxRetries(2),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	session, err := client.Login(ctx, tmdb.Credentials{Username: "u", Password: "p"})
//	if err != nil {
//		var stageErr *tmdb.StageError
//		if errors.As(err, &stageErr) {
//			log.Printf("login stopped at %s", stageErr.Stage)
//		}
//		log.Fatal(err)
//	}
//
//	favorites, err := client.ListFavorites(ctx, session)
//
// The client keeps no session state. The Session returned by Login is passed
// to every authenticated call.
//
// # Responses
//
// Every response goes through the same checks in order: transport failure,
// HTTP status outside 2xx, empty body, body that is not a JSON object. Only
// then is the provider status looked at:
//
//   - reads fail with ProviderRejectedError when success is false or a
//     status_code is reported without success
//   - writes must report one of the status codes expected for the intent,
//     otherwise UnexpectedProviderCodeError
//
// Only TransportError is retried.
//
// # Error Handling
//
//   - TransportError: network failure, retried with backoff
//   - HTTPStatusError: non-2xx status, with IsUnauthorized and IsNotFound
//   - MalformedBodyError: body is not the expected JSON
//   - ProviderRejectedError: application failure reported in the body
//   - UnexpectedProviderCodeError: write acknowledged with the wrong code
//   - MissingFieldError: a required key is absent
//   - StageError: wraps any of the above with the failed login stage
package tmdb
