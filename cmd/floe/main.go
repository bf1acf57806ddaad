// =================================================================
//
// Work of the floe authors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/floefs/floe/pkg/identity"
	"github.com/floefs/floe/pkg/log"
	"github.com/floefs/floe/pkg/stdfs"
	"github.com/floefs/floe/pkg/vfs"
	"github.com/floefs/floe/pkg/xdg"
)

const (
	FloeVersion = "0.1.0"
)

const (
	BackendMem = "mem"
	BackendOs  = "os"
)

var (
	SupportedBackends = []string{
		BackendMem,
		BackendOs,
	}
)

const (
	flagBackend = "backend"
	flagRoot    = "root"
	//
	flagLogPath = "log"
	flagLogPerm = "log-perm"
	//
	flagLong      = "long"
	flagNoFollow  = "no-follow"
	flagParents   = "parents"
	flagRecursive = "recursive"
	flagAppend    = "append"
)

func stringSliceContains(stringSlice []string, value string) bool {
	for _, x := range stringSlice {
		if value == x {
			return true
		}
	}
	return false
}

func initRootFlags(flag *pflag.FlagSet) {
	flag.StringP(flagBackend, "b", BackendOs, "filesystem backend.  One of: "+strings.Join(SupportedBackends, ","))
	flag.StringP(flagRoot, "r", "", "confine the os backend to the given directory")
	flag.StringP(flagLogPath, "l", "-", "path to the log output.  Defaults to stdout.")
	flag.String(flagLogPerm, "0600", "file permissions for log output file as unix file mode.")
}

func initViper(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	err := v.BindPFlags(cmd.Flags())
	if err != nil {
		return v, fmt.Errorf("error binding flag set to viper: %w", err)
	}
	err = v.BindPFlags(cmd.InheritedFlags())
	if err != nil {
		return v, fmt.Errorf("error binding inherited flag set to viper: %w", err)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // set environment variables to overwrite config
	return v, nil
}

func checkConfig(v *viper.Viper) error {
	backend := v.GetString(flagBackend)
	if !stringSliceContains(SupportedBackends, backend) {
		return fmt.Errorf("invalid backend %q, expecting one of %q", backend, strings.Join(SupportedBackends, ","))
	}
	if root := v.GetString(flagRoot); len(root) > 0 && backend != BackendOs {
		return fmt.Errorf("root confinement requires the %q backend", BackendOs)
	}
	logPath := v.GetString(flagLogPath)
	if len(logPath) == 0 {
		return fmt.Errorf("log path is missing")
	}
	logPerm := v.GetString(flagLogPerm)
	if len(logPerm) == 0 {
		return fmt.Errorf("log perm is missing")
	}
	_, err := strconv.ParseUint(logPerm, 8, 32)
	if err != nil {
		return fmt.Errorf("invalid format for log perm: %s", logPerm)
	}
	return nil
}

func newTraceID() string {
	traceID, err := uuid.NewV4()
	if err != nil {
		return ""
	}
	return traceID.String()
}

func initLogger(path string, perm string) (*log.SimpleLogger, error) {

	if path == "-" {
		return log.NewSimpleLogger(os.Stdout), nil
	}

	fileMode := os.FileMode(0600)

	if len(perm) > 0 {
		fm, err := strconv.ParseUint(perm, 8, 32)
		if err != nil {
			return nil, fmt.Errorf("error parsing file permissions for log file from %q", perm)
		}
		fileMode = os.FileMode(fm)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmt.Errorf("error opening log file %q: %w", path, err)
	}

	return log.NewSimpleLogger(f), nil
}

func initVfs(v *viper.Viper) (*vfs.Vfs, error) {
	switch v.GetString(flagBackend) {
	case BackendMem:
		return vfs.NewMemfs(), nil
	case BackendOs:
		if root := v.GetString(flagRoot); len(root) > 0 {
			return vfs.New(stdfs.NewWithRoot(root)), nil
		}
		return vfs.NewStdfs()
	}
	return nil, fmt.Errorf("invalid backend %q", v.GetString(flagBackend))
}

type env struct {
	v      *viper.Viper
	vfs    *vfs.Vfs
	logger *log.SimpleLogger
	trace  string
}

// initEnv runs the common setup shared by every filesystem subcommand.
func initEnv(cmd *cobra.Command) (*env, error) {
	v, err := initViper(cmd)
	if err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}
	if errConfig := checkConfig(v); errConfig != nil {
		return nil, errConfig
	}
	logger, err := initLogger(v.GetString(flagLogPath), v.GetString(flagLogPerm))
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	fileSystem, err := initVfs(v)
	if err != nil {
		return nil, fmt.Errorf("error initializing file system: %w", err)
	}
	return &env{
		v:      v,
		vfs:    fileSystem,
		logger: logger,
		trace:  newTraceID(),
	}, nil
}

func (e *env) log(msg string, fields map[string]interface{}) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["floe_trace_id"] = e.trace
	fields["backend"] = e.v.GetString(flagBackend)
	_ = e.logger.Log(msg, fields)
}

func formatLong(name string, mode os.FileMode, uid uint32, gid uint32, size int64, modified string, linkTarget string) string {
	owner := identity.UserName(uid)
	group := identity.GroupName(gid)
	if len(linkTarget) > 0 {
		name = name + " -> " + linkTarget
	}
	return fmt.Sprintf("%s %s %s %8d %s %s", mode, owner, group, size, modified, name)
}

func main() {

	rootCommand := &cobra.Command{
		Use:                   `floe [flags]`,
		DisableFlagsInUseLine: true,
		Short:                 "floe is a virtual file system with interchangeable in-memory and host backends.",
	}
	initRootFlags(rootCommand.PersistentFlags())

	lsCommand := &cobra.Command{
		Use:                   `ls [flags] path`,
		DisableFlagsInUseLine: true,
		Short:                 "list directory children",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			entries, err := e.vfs.ReadDir(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e.log("Listed directory", map[string]interface{}{
				"path":    args[0],
				"entries": len(entries),
			})
			long := e.v.GetBool(flagLong)
			for _, entry := range entries {
				if long {
					fmt.Println(formatLong(entry.Name, entry.Mode, entry.Uid, entry.Gid, entry.Size, entry.ModTime.Format("2006-01-02 15:04"), entry.LinkTarget))
					continue
				}
				fmt.Println(entry.Name)
			}
			return nil
		},
	}
	lsCommand.Flags().BoolP(flagLong, "L", false, "use long listing format")

	statCommand := &cobra.Command{
		Use:                   `stat [flags] path`,
		DisableFlagsInUseLine: true,
		Short:                 "show entry metadata",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			stat := e.vfs.Stat
			if e.v.GetBool(flagNoFollow) {
				stat = e.vfs.Lstat
			}
			entry, err := stat(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e.log("Stated entry", map[string]interface{}{
				"path": entry.Path,
				"kind": entry.Kind.String(),
			})
			fmt.Printf("path: %s\n", entry.Path)
			fmt.Printf("kind: %s\n", entry.Kind)
			fmt.Printf("mode: %s\n", entry.Mode)
			fmt.Printf("size: %d\n", entry.Size)
			fmt.Printf("owner: %s:%s\n", identity.UserName(entry.Uid), identity.GroupName(entry.Gid))
			fmt.Printf("modified: %s\n", entry.ModTime)
			fmt.Printf("accessed: %s\n", entry.AccessTime)
			if entry.IsSymlink() {
				fmt.Printf("target: %s\n", entry.LinkTarget)
			}
			return nil
		},
	}
	statCommand.Flags().Bool(flagNoFollow, false, "do not follow a final symlink")

	mkdirCommand := &cobra.Command{
		Use:                   `mkdir [flags] path`,
		DisableFlagsInUseLine: true,
		Short:                 "create a directory",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			mkdir := e.vfs.Mkdir
			if e.v.GetBool(flagParents) {
				mkdir = e.vfs.MkdirAll
			}
			if err := mkdir(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.log("Created directory", map[string]interface{}{
				"path":    args[0],
				"parents": e.v.GetBool(flagParents),
			})
			return nil
		},
	}
	mkdirCommand.Flags().BoolP(flagParents, "p", false, "create missing ancestor directories")

	touchCommand := &cobra.Command{
		Use:                   `touch [flags] path`,
		DisableFlagsInUseLine: true,
		Short:                 "create an empty file",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.vfs.Create(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.log("Created file", map[string]interface{}{
				"path": args[0],
			})
			return nil
		},
	}

	catCommand := &cobra.Command{
		Use:                   `cat [flags] path`,
		DisableFlagsInUseLine: true,
		Short:                 "print file content",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			data, err := e.vfs.ReadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	writeCommand := &cobra.Command{
		Use:                   `write [flags] path content`,
		DisableFlagsInUseLine: true,
		Short:                 "write content to an existing file",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			write := e.vfs.WriteFile
			if e.v.GetBool(flagAppend) {
				write = e.vfs.AppendFile
			}
			if err := write(cmd.Context(), args[0], []byte(args[1])); err != nil {
				return err
			}
			e.log("Wrote file", map[string]interface{}{
				"path":   args[0],
				"bytes":  len(args[1]),
				"append": e.v.GetBool(flagAppend),
			})
			return nil
		},
	}
	writeCommand.Flags().BoolP(flagAppend, "a", false, "append instead of replacing content")

	rmCommand := &cobra.Command{
		Use:                   `rm [flags] path`,
		DisableFlagsInUseLine: true,
		Short:                 "remove a file, symlink, or directory",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			remove := e.vfs.Remove
			if e.v.GetBool(flagRecursive) {
				remove = e.vfs.RemoveAll
			}
			if err := remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			e.log("Removed entry", map[string]interface{}{
				"path":      args[0],
				"recursive": e.v.GetBool(flagRecursive),
			})
			return nil
		},
	}
	rmCommand.Flags().BoolP(flagRecursive, "R", false, "remove directory children recursively")

	mvCommand := &cobra.Command{
		Use:                   `mv [flags] src dst`,
		DisableFlagsInUseLine: true,
		Short:                 "rename an entry",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.vfs.Rename(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			e.log("Renamed entry", map[string]interface{}{
				"src": args[0],
				"dst": args[1],
			})
			return nil
		},
	}

	lnCommand := &cobra.Command{
		Use:                   `ln [flags] target link`,
		DisableFlagsInUseLine: true,
		Short:                 "create a symlink",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.vfs.Symlink(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			e.log("Created symlink", map[string]interface{}{
				"target": args[0],
				"link":   args[1],
			})
			return nil
		},
	}

	readlinkCommand := &cobra.Command{
		Use:                   `readlink [flags] path`,
		DisableFlagsInUseLine: true,
		Short:                 "print the target of a symlink",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return cmd.Usage()
			}
			e, err := initEnv(cmd)
			if err != nil {
				return err
			}
			target, err := e.vfs.Readlink(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(target)
			return nil
		},
	}

	dirsCommand := &cobra.Command{
		Use:                   `dirs`,
		DisableFlagsInUseLine: true,
		Short:                 "show XDG base directories",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Usage()
			}
			configHome, err := xdg.ConfigHome()
			if err != nil {
				return err
			}
			cacheHome, err := xdg.CacheHome()
			if err != nil {
				return err
			}
			dataHome, err := xdg.DataHome()
			if err != nil {
				return err
			}
			stateHome, err := xdg.StateHome()
			if err != nil {
				return err
			}
			fmt.Printf("config: %s\n", configHome)
			fmt.Printf("cache: %s\n", cacheHome)
			fmt.Printf("data: %s\n", dataHome)
			fmt.Printf("state: %s\n", stateHome)
			if runtimeDir := xdg.RuntimeDir(); len(runtimeDir) > 0 {
				fmt.Printf("runtime: %s\n", runtimeDir)
			}
			return nil
		},
	}

	versionCommand := &cobra.Command{
		Use:                   `version`,
		DisableFlagsInUseLine: true,
		Short:                 "show version",
		SilenceErrors:         true,
		SilenceUsage:          true,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(FloeVersion)
			return nil
		},
	}

	rootCommand.AddCommand(
		lsCommand,
		statCommand,
		mkdirCommand,
		touchCommand,
		catCommand,
		writeCommand,
		rmCommand,
		mvCommand,
		lnCommand,
		readlinkCommand,
		dirsCommand,
		versionCommand,
	)

	if err := rootCommand.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "floe: "+err.Error())
		_, _ = fmt.Fprintln(os.Stderr, "Try floe --help for more information.")
		os.Exit(1)
	}
}
