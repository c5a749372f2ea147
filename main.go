package main

import "github.com/BasheerRaj/cliniva-backend-sub008/cmd"

func main() {
	cmd.Execute()
}
