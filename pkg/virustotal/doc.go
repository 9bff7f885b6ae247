// Package virustotal is a small client for the parts of the VirusTotal v3 API
// the scanner proxy needs: URL submission, file submission and analysis
// status queries.
//
//	client, err := virustotal.NewClient(os.Getenv("VIRUSTOTAL_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	id, err := client.SubmitURL(ctx, "https://example.com")
//	analysis, err := client.GetAnalysis(ctx, id)
//
// Every failure is an *Error whose Code tells submission rejections,
// analysis query rejections, missing analysis ids and transport or decoding
// failures apart. Nothing is retried.
package virustotal
