// Package docsift provides a Go client for the docsift document search API.
//
//	client := docsift.New("http://localhost:8080")
//	if err := client.Login(ctx, "alice", "password"); err != nil {
//	    return err
//	}
//	res, _ := client.IngestDocument(ctx, payload, "/in/report.pdf")
//	resp, _ := client.Search(ctx, docsift.SearchQuery{Query: "budget", Limit: 10})
package docsift
