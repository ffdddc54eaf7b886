// Package redis connects flows to Redis lists.
//
// Client wraps go-redis with flowkit logging and configuration conventions.
// List exposes a list as a reiterable async flow that pages through the
// entries with LRANGE, and Appender is a sink that RPUSHes each value:
//
//	client, err := redis.New(redis.Config{Addr: "localhost:6379"}, logger.Get("redis"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	src := client.List("events")
//	err = flow.ForEach(ctx, src.Take(100), client.Appender("events:copy"))
package redis
